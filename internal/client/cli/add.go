package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ekoshkin/recallbox/internal/client/models"
)

func categoryNames() string {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func (a *App) Add(ctx context.Context) error {
	category, err := GetSimpleText(a.reader, "Enter category ("+categoryNames()+")", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	primary, err := GetSimpleText(a.reader, "Enter the word, phrase or fact", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	secondary := ""
	switch models.Category(category) {
	case models.CategoryQuestions, models.CategoryBusiness:
		secondary, err = GetSimpleText(a.reader, "Enter the topic or context (optional)", os.Stdout)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
	}

	rec, err := a.service.Add(ctx, models.Category(category), primary, secondary)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Added", rec.ID)
	if rec.GeneratedText != "" {
		fmt.Println(rec.GeneratedText)
	}
	return nil
}
