package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ekoshkin/recallbox/internal/client/models"
)

// Review runs one review session: draw a weighted batch, show each card,
// reveal its back on Enter and record the self-reported outcome.
func (a *App) Review(ctx context.Context) error {
	batch, err := a.service.ReviewBatch(ctx, a.config.ReviewBatchSize)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(batch) == 0 {
		fmt.Println("Nothing to review.")
		return nil
	}

	for i, rec := range batch {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(batch), rec.PrimaryText)

		if _, err := GetSimpleText(a.reader, "Press Enter to reveal", os.Stdout); err != nil {
			return err
		}
		if rec.GeneratedText != "" {
			fmt.Println(rec.GeneratedText)
		}
		if rec.SecondaryText != "" {
			fmt.Println(rec.SecondaryText)
		}

		answer, err := GetSimpleText(a.reader, "How did you do? (f)ail, (p)artial, (g)ood, (s)kip", os.Stdout)
		if err != nil {
			return err
		}

		mastery := models.MasteryUnreviewed
		switch answer {
		case "f", "fail":
			mastery = models.MasteryFail
		case "p", "partial":
			mastery = models.MasteryPartial
		case "g", "good", "pass":
			mastery = models.MasteryPass
		default:
			continue
		}

		if err := a.service.UpdateMastery(ctx, rec.ID, mastery); err != nil {
			log.Printf("Error: %s", err.Error())
		}
	}

	fmt.Println("\nSession finished.")
	return nil
}
