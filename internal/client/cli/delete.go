package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Delete tombstones a card and immediately tries to propagate the deletion.
// The card is gone locally either way; a failed propagation is retried by
// the background scheduler.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter card id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.service.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Deleted", id)

	stats, ran, err := a.scheduler.TriggerSync(ctx)
	if !ran {
		return nil
	}
	if err != nil || stats.Incomplete() {
		fmt.Println("sync incomplete, will retry")
	}
	return nil
}
