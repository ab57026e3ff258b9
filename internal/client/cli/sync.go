package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) Sync(ctx context.Context) error {
	stats, ran, err := a.scheduler.TriggerSync(ctx)
	if !ran {
		fmt.Println("Sync already in progress.")
		return nil
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		fmt.Println("sync incomplete, will retry")
		return err
	}

	fmt.Printf("Synced: %d up, %d down, %d deletion(s) out, %d deletion(s) in\n",
		stats.Uploaded, stats.Downloaded, stats.DeletionsPropagated, stats.DeletionsReceived)
	if stats.Incomplete() {
		fmt.Println("sync incomplete, will retry")
	}
	return err
}
