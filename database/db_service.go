package database

import (
	"os"

	database "github.com/deanturpin/lft/database/models"
	"github.com/deanturpin/lft/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DBService is the write-only trade journal. Nothing in the trading
// path reads it back, the brokerage stays the durable source of truth.
type DBService struct {
	DB *gorm.DB
}

func NewDBService(dbHost string, dbPort string, dbName string, dbUser string, dbPass string) (*DBService, error) {
	dsn := dbUser + ":" + dbPass + "@tcp(" + dbHost + ":" + dbPort + ")/" + dbName + "?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.Order{}, &database.Exit{}, &database.BlockedEntry{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

// NewDBServiceFromEnv returns nil when no journal host is configured,
// callers treat a nil journal as disabled.
func NewDBServiceFromEnv() (*DBService, error) {
	dbHost := os.Getenv("dbHost")
	if dbHost == "" {
		return nil, nil
	}
	dbPort := os.Getenv("dbPort")
	if dbPort == "" {
		dbPort = "3306"
	}
	return NewDBService(dbHost, dbPort, os.Getenv("dbName"), os.Getenv("dbUser"), os.Getenv("dbPass"))
}

func (dbs *DBService) RecordOrder(order models.Order, strategy string, reason string) {
	dbs.DB.Create(&database.Order{
		OrderID:        order.ID,
		ClientOrderID:  order.ClientOrderID,
		Symbol:         order.Symbol,
		Side:           string(order.Side),
		Strategy:       strategy,
		Reason:         reason,
		Notional:       order.Notional,
		Qty:            order.Qty,
		FilledAvgPrice: order.FilledAvgPrice,
		Status:         string(order.Status),
	})
}

func (dbs *DBService) RecordExit(symbol string, strategy string, trigger models.ExitTrigger, profit float64) {
	dbs.DB.Create(&database.Exit{
		Symbol:   symbol,
		Strategy: strategy,
		Trigger:  string(trigger),
		Profit:   profit,
	})
}

func (dbs *DBService) RecordBlocked(symbol string, strategy string, reason string) {
	dbs.DB.Create(&database.BlockedEntry{
		Symbol:   symbol,
		Strategy: strategy,
		Reason:   reason,
	})
}
