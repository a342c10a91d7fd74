package config

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"sync"
)

// Add field here when new config element in json
type Config struct {
	MongoURI             string `json:"mongoURI"`
	Cluster              string `json:"cluster"`
	UserCollection       string `json:"userCollection"`
	ProxyCollection      string `json:"proxyCollection"`
	MarketCollection     string `json:"marketCollection"`
	BetCollection        string `json:"betCollection"`
	SettlementCollection string `json:"settlementCollection"`
	SecretKey            string `json:"secretKey"`
	Domain               string `json:"domain"`
	Port                 string `json:"port"`
	Debug                bool   `json:"debug"`
	// Spendable balance granted on signup; stands in for funding from outside the system
	InitialBalance uint64 `json:"initialBalance"`
	// Smallest fee balance the market must keep after an owner withdrawal
	MarketMinimumReserve uint64 `json:"marketMinimumReserve"`
	// Validity window in minutes for delegated session tokens
	SessionValidityMins int64 `json:"sessionValidityMins"`
}

var configOnce sync.Once
var GlobalConfig Config
var cfgErr error = nil

func SetupConfig() error {
	configOnce.Do(func() {
		log.Println("Reading config file...")
		jsonFile, err := os.Open("config/default.json")
		defer jsonFile.Close()
		if err != nil {
			cfgErr = err
		} else {
			configBytes, err := ioutil.ReadAll(jsonFile)
			if err != nil {
				cfgErr = err
			} else {
				json.Unmarshal(configBytes, &GlobalConfig)
			}
		}
	})
	return cfgErr
}
