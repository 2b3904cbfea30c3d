package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorillaDoAPI/internal/types/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher delivers notifications off the request path through
// a small worker pool.
type NotificationDispatcher struct {
	service      *NotificationService
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *dispatchJob
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

type dispatchJob struct {
	Notification *notification.Notification
	Preferences  *notification.NotificationPreferences
}

func NewNotificationDispatcher(service *NotificationService) *NotificationDispatcher {
	d := &NotificationDispatcher{
		service:  service,
		workers:  5,
		jobQueue: make(chan *dispatchJob, 100),
		stopChan: make(chan struct{}),
	}
	d.startWorkers()
	return d
}

// SetPushProvider allows injecting the real FCM provider from main.go.
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(job *dispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notif := job.Notification
	prefs := job.Preferences

	if prefs.PushEnabled && len(prefs.DeviceTokens) > 0 && d.pushProvider != nil {
		err := d.pushProvider.SendPush(ctx, prefs.DeviceTokens, notif.Title, notif.Body, notif.Data)
		if err != nil {
			d.service.markAsFailed(ctx, notif.ID, err)
			return
		}
	} else {
		log.Printf("Skipping push for %s: enabled=%v tokens=%d provider=%v",
			notif.UserID, prefs.PushEnabled, len(prefs.DeviceTokens), d.pushProvider != nil)
	}

	d.service.markAsSent(ctx, notif.ID)
}

// Dispatch queues a notification for delivery. Drops with a log line if the
// queue stays full; delivery is best-effort.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, notif *notification.Notification, prefs *notification.NotificationPreferences) {
	job := &dispatchJob{Notification: notif, Preferences: prefs}

	select {
	case d.jobQueue <- job:
	case <-time.After(5 * time.Second):
		log.Printf("Failed to queue notification %s: queue full", notif.ID)
	}
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
	d.wg.Wait()
}
