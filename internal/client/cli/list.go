package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/ekoshkin/recallbox/internal/client/models"
)

func masteryLabel(level int) string {
	switch level {
	case models.MasteryFail:
		return "fail"
	case models.MasteryPartial:
		return "partial"
	case models.MasteryPass:
		return "pass"
	}
	return "unreviewed"
}

func (a *App) List(ctx context.Context, category string) error {
	var (
		rows []*models.Record
		err  error
	)
	if category == "" {
		rows, err = a.service.List(ctx)
	} else {
		rows, err = a.service.ListByCategory(ctx, models.Category(category))
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	for _, rec := range rows {
		fmt.Printf("%s  [%s/%s]  %s\n", rec.ID, rec.Category, masteryLabel(rec.MasteryLevel), rec.PrimaryText)
	}
	fmt.Printf("%d card(s)\n", len(rows))
	return nil
}
