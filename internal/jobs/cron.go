package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mushxhid/Accounting-sub000/internal/fx"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

// Start schedules the background jobs and returns the running scheduler so
// the caller can Stop it on shutdown.
func Start(fxs *fx.Service, svc *ledger.Service) *cron.Cron {
	c := cron.New()

	// Hourly — keep the exchange rate cache warm so entry forms never wait
	// on the provider.
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		rate := fxs.Refresh(ctx)
		logger.Log.WithField("rate", rate.String()).Debug("fx rate refreshed")
	})
	if err != nil {
		logger.Log.WithError(err).Error("failed to schedule fx refresh job")
	}

	// Daily at midnight — walk every organization's ledger and compare it
	// against the stored balance. Drift is reported, never auto-corrected.
	_, err = c.AddFunc("0 0 * * *", func() {
		if err := checkAllOrgs(svc); err != nil {
			logger.Log.WithError(err).Error("drift check job failed")
		}
	})
	if err != nil {
		logger.Log.WithError(err).Error("failed to schedule drift check job")
	}

	c.Start()
	logger.Log.Info("cron jobs started (fx refresh hourly, drift check daily at midnight)")
	return c
}

func checkAllOrgs(svc *ledger.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	orgs, err := svc.Balance.Orgs(ctx)
	if err != nil {
		return err
	}

	drifted := 0
	for _, orgID := range orgs {
		_, _, bad, err := svc.CheckDrift(ctx, orgID)
		if err != nil {
			logger.Log.WithError(err).WithField("org_id", orgID).Error("drift check failed for org")
			continue
		}
		if bad {
			drifted++
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"orgs":    len(orgs),
		"drifted": drifted,
	}).Info("nightly drift check complete")
	return nil
}
