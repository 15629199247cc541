package main

import (
	"fmt"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

var (
	temperatureFlag = cli.Float64Flag{
		Name:  "temperature",
		Usage: "temperature reading in degrees celsius",
	}
	humidityFlag = cli.Float64Flag{
		Name:  "humidity",
		Usage: "relative humidity in percent",
	}
	lockFlag = cli.StringFlag{
		Name:  "lock",
		Usage: "lock state: unlocked, locked or revoked",
	}
	authorityFlag = cli.StringFlag{
		Name:     "authority",
		Usage:    "bech32 address of the new authority",
		Required: true,
	}
)

var initToken = cli.Command{
	Name:   "init",
	Usage:  "mint a state token and lock it at the contract with the initial datum",
	Action: initAction,
	Flags:  []cli.Flag{&tokenFlag, &temperatureFlag, &humidityFlag, &lockFlag},
}

var update = cli.Command{
	Name:   "update",
	Usage:  "rewrite the payload of a token's state cell",
	Action: updateAction,
	Flags:  []cli.Flag{&tokenFlag, &temperatureFlag, &humidityFlag, &lockFlag},
}

var reassign = cli.Command{
	Name:   "reassign",
	Usage:  "hand the update authority of a token over to another address",
	Action: reassignAction,
	Flags:  []cli.Flag{&tokenFlag, &authorityFlag},
}

var withdraw = cli.Command{
	Name:   "withdraw",
	Usage:  "move the token back to the wallet and retire the state cell",
	Action: withdrawAction,
	Flags:  []cli.Flag{&tokenFlag},
}

// payloadFromFlags picks the payload schema from the flags that were set:
// --lock for locker tokens, --temperature/--humidity for sensor tokens.
func payloadFromFlags(ctx *cli.Context) ([]plutus.Data, error) {
	if ctx.IsSet("lock") {
		var state domain.LockState
		switch ctx.String("lock") {
		case "unlocked":
			state = domain.LockStateUnlocked
		case "locked":
			state = domain.LockStateLocked
		case "revoked":
			state = domain.LockStateRevoked
		default:
			return nil, fmt.Errorf("unknown lock state %q", ctx.String("lock"))
		}
		return domain.LockPayload{State: state}.Fields(), nil
	}

	if !ctx.IsSet("temperature") && !ctx.IsSet("humidity") {
		return nil, fmt.Errorf("either --lock or --temperature/--humidity must be set")
	}
	return domain.SensorPayload{
		Temperature: scaled(ctx.Float64("temperature")),
		Humidity:    scaled(ctx.Float64("humidity")),
	}.Fields(), nil
}

// readings travel on chain as integers scaled by 1000
func scaled(v float64) int64 {
	return int64(math.Round(v * 1000))
}

func initAction(ctx *cli.Context) error {
	payload, err := payloadFromFlags(ctx)
	if err != nil {
		return err
	}

	_, transitionSvc, err := services()
	if err != nil {
		return err
	}

	unsignedTx, err := transitionSvc.Init(ctx.String("token"), payload)
	if err != nil {
		return err
	}
	printUnsignedTx(unsignedTx)
	return nil
}

func updateAction(ctx *cli.Context) error {
	payload, err := payloadFromFlags(ctx)
	if err != nil {
		return err
	}

	_, transitionSvc, err := services()
	if err != nil {
		return err
	}

	unsignedTx, err := transitionSvc.Update(ctx.String("token"), payload)
	if err != nil {
		return err
	}
	printUnsignedTx(unsignedTx)
	return nil
}

func reassignAction(ctx *cli.Context) error {
	_, transitionSvc, err := services()
	if err != nil {
		return err
	}

	unsignedTx, err := transitionSvc.Reassign(
		ctx.String("token"), ctx.String("authority"),
	)
	if err != nil {
		return err
	}
	printUnsignedTx(unsignedTx)
	return nil
}

func withdrawAction(ctx *cli.Context) error {
	_, transitionSvc, err := services()
	if err != nil {
		return err
	}

	unsignedTx, err := transitionSvc.Withdraw(ctx.String("token"))
	if err != nil {
		return err
	}
	printUnsignedTx(unsignedTx)
	return nil
}

func printUnsignedTx(unsignedTx string) {
	printRespJSON(map[string]string{"unsigned_tx": unsignedTx})
}
