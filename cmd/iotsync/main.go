package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/iotsync-network/iotsync-daemon/internal/config"
	"github.com/iotsync-network/iotsync-daemon/internal/core/application"
	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/internal/infrastructure/wallet"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

var tokenFlag = cli.StringFlag{
	Name:  "token",
	Usage: "asset name of the state token",
	Value: "Sensor1",
}

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "iotsync CLI"
	app.Usage = "Command line interface for iotsyncd operators"
	app.Commands = append(
		app.Commands,
		&status,
		&history,
		&role,
		&initToken,
		&update,
		&reassign,
		&withdraw,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// services builds the daemon's application services in-process: the CLI
// talks to the same indexer and works on the same contract session as the
// daemon would.
func services() (*application.QueryService, *application.TransitionService, error) {
	walletAddr := config.GetString(config.WalletAddressKey)
	if walletAddr == "" {
		return nil, nil, fmt.Errorf("WALLET_ADDRESS must be set")
	}

	explorerSvc, err := config.GetExplorer()
	if err != nil {
		return nil, nil, err
	}

	bp, err := plutus.LoadBlueprint(config.GetString(config.BlueprintPathKey))
	if err != nil {
		return nil, nil, err
	}
	contract, err := domain.NewContract(
		bp,
		config.GetString(config.MintValidatorKey),
		config.GetString(config.SpendValidatorKey),
		walletAddr,
		config.GetNetwork(),
	)
	if err != nil {
		return nil, nil, err
	}

	walletSvc := wallet.NewWatchWallet(
		explorerSvc, walletAddr, config.GetUint64(config.MinCollateralKey),
	)

	querySvc := application.NewQueryService(
		explorerSvc, contract, config.GetString(config.ExplorerURLKey),
	)
	transitionSvc := application.NewTransitionService(
		explorerSvc, walletSvc, contract,
	)
	return querySvc, transitionSvc, nil
}

func printRespJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(buf))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[iotsync] %v\n", err)
	os.Exit(1)
}
