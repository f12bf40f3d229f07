package config

import (
	"encoding/json"
	"os"

	"github.com/dogecoinw/go-dogecoin/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type MysqlConfig struct {
	Switch   bool   `json:"switch"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	UserName string `json:"user_name"`
	PassWord string `json:"pass_word"`
	DbName   string `json:"db_name"`
}

type SqliteConfig struct {
	Switch bool   `json:"switch"`
	Dir    string `json:"dir"`
}

type HttpServerConfig struct {
	Switch bool   `json:"switch"`
	Server string `json:"server"`
}

type IndexerConfig struct {
	Switch    bool  `json:"switch"`
	FromBlock int64 `json:"from_block"`
}

// ChainConfig is the static per-deployment pricing configuration.
type ChainConfig struct {
	FactoryAddress              string          `json:"factory_address"`
	WrappedNativeAddress        string          `json:"wrapped_native_address"`
	StablecoinWrappedNativePool string          `json:"stablecoin_wrapped_native_pool"`
	StablecoinIsToken0          bool            `json:"stablecoin_is_token0"`
	StablecoinAddresses         []string        `json:"stablecoin_addresses"`
	WhitelistTokens             []string        `json:"whitelist_tokens"`
	MinimumEthLocked            decimal.Decimal `json:"minimum_eth_locked"`
	DenylistPools               []string        `json:"denylist_pools"`
}

type Config struct {
	DebugLevel int              `json:"debug_level"`
	Mysql      MysqlConfig      `json:"mysql"`
	Sqlite     SqliteConfig     `json:"sqlite"`
	LevelDB    string           `json:"leveldb"`
	HttpServer HttpServerConfig `json:"http_server"`
	Indexer    IndexerConfig    `json:"indexer"`
	Chain      ChainConfig      `json:"chain"`
}

func LoadConfig(cfg *Config, path string) {
	// .env overrides keep credentials out of the checked-in file
	_ = godotenv.Load()

	if path == "" {
		path = "config.json"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("config", "read err", err)
		os.Exit(1)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Error("config", "unmarshal err", err)
		os.Exit(1)
	}

	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.Mysql.Host = v
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		cfg.Mysql.UserName = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.Mysql.PassWord = v
	}
}
