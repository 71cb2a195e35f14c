package main

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"

	"github.com/hashingsystems/ptokens-core/cmd"
)

const (
	ENV_CONFIG_FILE_PATH = "PTOKENS_CONFIG"
)

func main() {
	// Set overall config level to Debug
	// logconfig.ConfigDebugLogger()

	// Tool to read environment variables
	viper.AutomaticEnv()

	// Accessing an environment variable of configuration file location.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	fmt.Printf("Enclave configuration file = %s\n", _config_file)

	// See if file exists
	if !cmd.FileExists(_config_file) {
		fmt.Printf("Enclave configuration file not found: %s\n", _config_file)
		return
	}

	// Read from config file.
	success := initializeViper(_config_file)
	if !success {
		return
	}

	// Make the configuration
	ec := PrepareEnclaveConfig()
	if ec == nil {
		fmt.Printf("Error loading enclave configuration\n")
		return
	}

	fmt.Println("Starting enclave... press Ctrl+C to kill the server")
	// Start server and block.
	cmd.StartEnclaveAndWait(ec)
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

// PrepareEnclaveConfig reads configuration variables and returns an EnclaveConfig.
func PrepareEnclaveConfig() *cmd.EnclaveConfig {

	// *** prepare objects that aren't string type ***

	// Parse the BTC chain config (e.g., "regtest", "testnet", or "mainnet").
	var btcParams *chaincfg.Params
	switch viper.GetString("BTC_CHAIN_CONFIG") {
	case "testnet":
		btcParams = &chaincfg.TestNet3Params
	case "mainnet":
		btcParams = &chaincfg.MainNetParams
	case "regtest":
		btcParams = &chaincfg.RegressionNetParams
	default:
		// default to regtest
		btcParams = &chaincfg.RegressionNetParams
	}

	// *** end of preparing objects ***

	return &cmd.EnclaveConfig{
		// store side
		DbFilePath:      viper.GetString("DB_FILE_PATH"),
		VaultDbFilePath: viper.GetString("VAULT_DB_FILE_PATH"),
		// btc side
		BtcChainConfig:   btcParams,
		EnclavePubKeyHex: viper.GetString("ENCLAVE_PUB_KEY"),
		BtcVaultAddress:  viper.GetString("BTC_VAULT_ADDRESS"),
		BtcAnchorHash:    viper.GetString("BTC_ANCHOR_HASH"),
		BtcAnchorHeight:  viper.GetUint64("BTC_ANCHOR_HEIGHT"),
		BtcCanonToTip:    viper.GetUint64("BTC_CANON_TO_TIP_LENGTH"),
		BtcTailLength:    viper.GetUint64("BTC_TAIL_LENGTH"),
		// eth side
		EthAnchorHash:   viper.GetString("ETH_ANCHOR_HASH"),
		EthAnchorHeight: viper.GetUint64("ETH_ANCHOR_HEIGHT"),
		EthCanonToTip:   viper.GetUint64("ETH_CANON_TO_TIP_LENGTH"),
		EthTailLength:   viper.GetUint64("ETH_TAIL_LENGTH"),
		EthChainID:      uint8(viper.GetUint("ETH_CHAIN_ID")),
		EthGasPrice:     viper.GetUint64("ETH_GAS_PRICE"),
		// Http side
		HttpIp:   viper.GetString("HTTP_IP"),
		HttpPort: viper.GetString("HTTP_PORT"),
	}
}
