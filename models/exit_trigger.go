package models

type ExitTrigger string

const (
	ExitTriggerTakeProfit   ExitTrigger = "Profit Target"
	ExitTriggerStopLoss     ExitTrigger = "Stop Loss"
	ExitTriggerTrailingStop ExitTrigger = "Trailing Stop"
	ExitTriggerPanicStop    ExitTrigger = "Panic Stop"
	ExitTriggerEndOfDay     ExitTrigger = "End Of Day"
	ExitTriggerNone         ExitTrigger = ""
)
