package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"amm-indexer/config"
	"amm-indexer/models"

	"github.com/dogecoinw/go-dogecoin/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBClient struct {
	DB *gorm.DB
}

func NewMysqlClient(cfg config.MysqlConfig) *DBClient {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.UserName, cfg.PassWord, cfg.Host, cfg.Port, cfg.DbName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("storage", "mysql open err", err)
		os.Exit(1)
	}

	return &DBClient{DB: db}
}

func NewSqliteClient(cfg config.SqliteConfig) *DBClient {
	if cfg.Dir != "" {
		_ = os.MkdirAll(cfg.Dir, 0755)
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(cfg.Dir, "amm-indexer.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("storage", "sqlite open err", err)
		os.Exit(1)
	}

	return &DBClient{DB: db}
}

func (db *DBClient) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Bundle{},
		&models.Factory{},
		&models.FactoryDayData{},
		&models.Pool{},
		&models.PoolBucket{},
		&models.Token{},
		&models.TokenBucket{},
		&models.TokenBalance{},
		&models.Swap{},
		&models.Transaction{},
	)
}

// LoadBundle returns the singleton bundle row, creating it on first touch.
func (db *DBClient) LoadBundle(tx *gorm.DB) (*models.Bundle, error) {
	bundle := &models.Bundle{}
	err := tx.Where("id = ?", 1).First(bundle).Error
	if err == nil {
		return bundle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadBundle err: %s", err.Error())
	}

	bundle.ID = 1
	if err := tx.Create(bundle).Error; err != nil {
		return nil, fmt.Errorf("LoadBundle create err: %s", err.Error())
	}
	return bundle, nil
}

// LoadFactory returns the factory row for the deployment, creating it on
// first touch.
func (db *DBClient) LoadFactory(tx *gorm.DB, address string) (*models.Factory, error) {
	factory := &models.Factory{}
	err := tx.Where("address = ?", address).First(factory).Error
	if err == nil {
		return factory, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadFactory err: %s", err.Error())
	}

	factory.Address = address
	if err := tx.Create(factory).Error; err != nil {
		return nil, fmt.Errorf("LoadFactory create err: %s", err.Error())
	}
	return factory, nil
}

// PoolByAddress returns (nil, nil) when the pool does not exist.
func (db *DBClient) PoolByAddress(tx *gorm.DB, address string) (*models.Pool, error) {
	pool := &models.Pool{}
	err := tx.Where("address = ?", address).First(pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PoolByAddress err: %s", err.Error())
	}
	return pool, nil
}

// TokenByAddress returns (nil, nil) when the token does not exist.
func (db *DBClient) TokenByAddress(tx *gorm.DB, address string) (*models.Token, error) {
	token := &models.Token{}
	err := tx.Where("address = ?", address).First(token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("TokenByAddress err: %s", err.Error())
	}
	return token, nil
}

// PoolsByToken returns every pool containing the token, ordered by pool
// address ascending so price derivation ties break deterministically.
func (db *DBClient) PoolsByToken(tx *gorm.DB, address string) ([]*models.Pool, error) {
	pools := make([]*models.Pool, 0)
	err := tx.Where("token0_address = ? or token1_address = ?", address, address).
		Order("address asc").
		Find(&pools).Error
	if err != nil {
		return nil, fmt.Errorf("PoolsByToken err: %s", err.Error())
	}
	return pools, nil
}

// LoadOrCreateTransaction creates the transaction row for the first event
// seen in a chain transaction; later events in the same transaction reuse it.
func (db *DBClient) LoadOrCreateTransaction(tx *gorm.DB, txHash string, blockNumber, timestamp, gasUsed int64, gasPrice *models.BigInt) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := tx.Where("tx_hash = ?", txHash).First(transaction).Error
	if err == nil {
		return transaction, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadOrCreateTransaction err: %s", err.Error())
	}

	transaction.TxHash = txHash
	transaction.BlockNumber = blockNumber
	transaction.Timestamp = timestamp
	transaction.GasUsed = gasUsed
	transaction.GasPrice = gasPrice
	if err := tx.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("LoadOrCreateTransaction create err: %s", err.Error())
	}
	return transaction, nil
}
