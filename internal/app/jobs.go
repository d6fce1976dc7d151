package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	interval := a.appConfig.Cache.RefreshInterval
	if interval == "" {
		interval = "@every 5m"
	}
	_, err := a.sched.AddFunc(interval, func() {
		a.cache.Refresh(context.Background())
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Rewrite the durable snapshots from the working sets once a day so the
	// offline fallback never drifts far from what customers last saw.
	_, err = a.sched.AddFunc("@daily", func() {
		a.cache.RewriteSnapshots()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}
