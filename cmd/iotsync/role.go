package main

import (
	"github.com/urfave/cli/v2"
)

var addressFlag = cli.StringFlag{
	Name:     "address",
	Usage:    "bech32 address to classify against the token datum",
	Required: true,
}

var role = cli.Command{
	Name:   "role",
	Usage:  "resolve the access role of an address for a token",
	Action: roleAction,
	Flags:  []cli.Flag{&tokenFlag, &addressFlag},
}

func roleAction(ctx *cli.Context) error {
	querySvc, _, err := services()
	if err != nil {
		return err
	}

	accessRole, err := querySvc.ResolveAccessRole(
		ctx.String("token"), ctx.String("address"),
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{"role": accessRole.String()})
	return nil
}
