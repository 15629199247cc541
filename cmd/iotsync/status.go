package main

import (
	"encoding/hex"

	"github.com/urfave/cli/v2"

	"github.com/iotsync-network/iotsync-daemon/internal/core/application"
)

var status = cli.Command{
	Name:   "status",
	Usage:  "print the current on-chain state of a token",
	Action: statusAction,
	Flags:  []cli.Flag{&tokenFlag},
}

var history = cli.Command{
	Name:   "history",
	Usage:  "print the state history of a token, newest first",
	Action: historyAction,
	Flags:  []cli.Flag{&tokenFlag},
}

type stateView struct {
	Time        string   `json:"time,omitempty"`
	TxHash      string   `json:"tx_hash"`
	Owner       string   `json:"owner"`
	Authority   string   `json:"authority"`
	Payload     []string `json:"payload"`
	ExplorerURL string   `json:"explorer_url"`
}

func toStateView(record application.StateRecord) stateView {
	view := stateView{
		TxHash:      record.TxHash,
		Owner:       hex.EncodeToString(record.Datum.Owner),
		Authority:   hex.EncodeToString(record.Datum.Authority),
		ExplorerURL: record.ExplorerURL,
	}
	if !record.Time.IsZero() {
		view.Time = record.Time.Format("2006-01-02 15:04:05")
	}
	for _, field := range record.Datum.Payload {
		view.Payload = append(view.Payload, field.String())
	}
	return view
}

func statusAction(ctx *cli.Context) error {
	querySvc, _, err := services()
	if err != nil {
		return err
	}

	record, err := querySvc.Status(ctx.String("token"))
	if err != nil {
		return err
	}

	printRespJSON(toStateView(*record))
	return nil
}

func historyAction(ctx *cli.Context) error {
	querySvc, _, err := services()
	if err != nil {
		return err
	}

	records, err := querySvc.History(ctx.String("token"))
	if err != nil {
		return err
	}

	views := make([]stateView, 0, len(records))
	for _, record := range records {
		views = append(views, toStateView(record))
	}
	printRespJSON(views)
	return nil
}
