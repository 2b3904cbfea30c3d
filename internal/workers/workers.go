package workers

import (
	"context"
	"log"
	"time"

	"gorillaDoAPI/internal/progression"
	"gorillaDoAPI/middleware"
	"gorillaDoAPI/services"
)

// StartRolloverWorker runs the daily rollover shortly after each UTC
// midnight, evaluating the day that just ended for every user. The
// boundary catch-up covers restarts: on boot it immediately rolls the
// previous day, and users already finalized for that day are skipped via
// their recorded rollover date.
func StartRolloverWorker(rollover *services.RolloverService, clock services.Clock) chan<- struct{} {
	stop := make(chan struct{})

	go func() {
		runOnce(rollover, clock)

		for {
			wait := untilNextMidnight(clock.Now())
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				runOnce(rollover, clock)
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return stop
}

func runOnce(rollover *services.RolloverService, clock services.Clock) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// The day being closed out is yesterday in UTC terms.
	day := progression.DateOf(clock.Now()).AddDate(0, 0, -1)

	log.Printf("Rollover worker: evaluating %s", day.Format("2006-01-02"))

	report, err := rollover.RunDaily(ctx, day)
	if err != nil {
		log.Printf("Rollover worker: run for %s failed: %v", day.Format("2006-01-02"), err)
		return
	}

	middleware.AddRollovers("ok", report.UsersRolled)
	middleware.AddRollovers("error", report.Errors)
	middleware.AddBossOutcomes("won", report.BossesWon)
	middleware.AddBossOutcomes("lost", report.BossesLost)

	log.Printf("Rollover worker: %s done, %d users rolled, %d errors",
		day.Format("2006-01-02"), report.UsersRolled, report.Errors)
}

func untilNextMidnight(now time.Time) time.Duration {
	next := progression.DateOf(now).AddDate(0, 0, 1)
	// A small delay past midnight keeps late completion writes out of the
	// closing day.
	return next.Sub(now) + 30*time.Second
}
