package main

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/iotsync-network/iotsync-daemon/internal/config"
	"github.com/iotsync-network/iotsync-daemon/internal/core/application"
	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/internal/core/ports"
	"github.com/iotsync-network/iotsync-daemon/internal/infrastructure/wallet"
	"github.com/iotsync-network/iotsync-daemon/pkg/aggregator"
	"github.com/iotsync-network/iotsync-daemon/pkg/crawler"
	"github.com/iotsync-network/iotsync-daemon/pkg/devicefeed"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	walletAddr := config.GetString(config.WalletAddressKey)
	if walletAddr == "" {
		log.Panic("WALLET_ADDRESS must be set")
	}

	explorerSvc, err := config.GetExplorer()
	if err != nil {
		log.WithError(err).Panic("error while connecting to explorer")
	}

	bp, err := plutus.LoadBlueprint(config.GetString(config.BlueprintPathKey))
	if err != nil {
		log.WithError(err).Panic("error while loading blueprint")
	}
	contract, err := domain.NewContract(
		bp,
		config.GetString(config.MintValidatorKey),
		config.GetString(config.SpendValidatorKey),
		walletAddr,
		config.GetNetwork(),
	)
	if err != nil {
		log.WithError(err).Panic("error while deriving contract session")
	}
	log.WithFields(log.Fields{
		"policy":  contract.PolicyID,
		"address": contract.ScriptAddress,
	}).Info("contract session ready")

	walletSvc := wallet.NewWatchWallet(
		explorerSvc, walletAddr, config.GetUint64(config.MinCollateralKey),
	)
	watcher := crawler.NewService(crawler.Opts{
		ExplorerSvc:            explorerSvc,
		IntervalInMilliseconds: config.GetInt(config.CrawlIntervalKey),
		RequestsPerSecond:      float64(config.GetInt(config.CrawlLimitKey)),
		ErrorHandler: func(err error) {
			log.WithError(err).Warn("watcher error")
		},
	})

	transitionSvc := application.NewTransitionService(explorerSvc, walletSvc, contract)
	submitSvc := application.NewSubmitService(
		explorerSvc, watcher,
		config.GetString(config.ExplorerURLKey),
		config.GetDuration(config.ConfirmationTimeoutKey),
	)
	submitSvc.OnTokenEvent(logTokenEvent)
	go submitSvc.Start()
	defer submitSvc.Stop()

	tokenName := config.GetString(config.TokenNameKey)
	watcher.AddObservable(&crawler.TokenObservable{
		Address: contract.ScriptAddress,
		Unit:    contract.TokenID(tokenName).Unit(),
	})

	aggregatorSvc := aggregator.NewService(aggregator.Opts{
		FlushInterval:     config.GetDuration(config.FlushIntervalKey),
		AllowedTimeOffset: config.GetDuration(config.AllowedTimeOffsetKey),
		SampleTTL:         config.GetDuration(config.SampleTTLKey),
		OnFlush:           flushHandler(transitionSvc, submitSvc, walletSvc, tokenName),
	})
	go aggregatorSvc.Start()
	defer aggregatorSvc.Stop()

	feed, err := devicefeed.NewService(config.GetString(config.DeviceGatewayKey))
	if err != nil {
		log.WithError(err).Warn("device gateway unreachable, running without sample feed")
	} else {
		go func() {
			if err := feed.Start(); err != nil {
				log.WithError(err).Error("sample feed terminated")
			}
		}()
		go func() {
			for sample := range feed.SampleChan() {
				aggregatorSvc.Push(sample)
			}
		}()
		defer feed.Stop()
	}

	log.Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("exiting")
}

// flushHandler turns each aggregated sample batch into a state transition:
// an update of the configured token, or an init when the token does not
// exist yet. With a watch-only wallet the unsigned transaction is logged for
// external signing instead of being broadcast.
func flushHandler(
	transitionSvc *application.TransitionService,
	submitSvc *application.SubmitService,
	walletSvc ports.Wallet,
	tokenName string,
) aggregator.FlushFunc {
	return func(sample aggregator.Sample) error {
		payload := domain.ReadingPayload{
			Value: sample.Value.Mul(decimal.NewFromInt(1000)).IntPart(),
			Time:  sample.Time.Unix(),
		}.Fields()

		unsignedTx, err := transitionSvc.Update(tokenName, payload)
		if errors.Is(err, domain.ErrTokenNotFound) {
			unsignedTx, err = transitionSvc.Init(tokenName, payload)
		}
		if err != nil {
			return err
		}

		signedTx, err := walletSvc.SignTx(unsignedTx, false)
		if errors.Is(err, wallet.ErrWatchOnly) {
			log.WithFields(log.Fields{
				"token": tokenName,
				"tx":    unsignedTx,
			}).Info("unsigned transition ready for external signing")
			return nil
		}
		if err != nil {
			return err
		}

		event, err := submitSvc.SubmitAndWait(context.Background(), signedTx)
		if err != nil {
			return err
		}
		log.WithField("ref", event.ExplorerURL).Info("state synchronized")
		return nil
	}
}

func logTokenEvent(event crawler.TokenEvent) {
	fields := log.Fields{"unit": event.Unit, "tx": event.TxHash}
	datum, err := domain.DecodeStateDatum(event.DatumHex)
	if err == nil {
		fields["authority"] = hex.EncodeToString(datum.Authority)
	}
	log.WithFields(fields).Info("token state changed on chain")
}
