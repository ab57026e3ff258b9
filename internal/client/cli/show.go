package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter card id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rec, err := a.service.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("ID:       %s\n", rec.ID)
	fmt.Printf("Category: %s\n", rec.Category)
	fmt.Printf("Text:     %s\n", rec.PrimaryText)
	if rec.SecondaryText != "" {
		fmt.Printf("Context:  %s\n", rec.SecondaryText)
	}
	if rec.GeneratedText != "" {
		fmt.Printf("Generated:\n%s\n", rec.GeneratedText)
	}
	fmt.Printf("Mastery:  %s\n", masteryLabel(rec.MasteryLevel))
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter card id to edit", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rec, err := a.service.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	primary, err := GetSimpleText(a.reader, fmt.Sprintf("New text (was: %s)", rec.PrimaryText), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if primary == "" {
		primary = rec.PrimaryText
	}

	secondary, err := GetSimpleText(a.reader, "New context (empty keeps current)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if secondary == "" {
		secondary = rec.SecondaryText
	}

	if err := a.service.Update(ctx, id, primary, secondary); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Updated", id)
	return nil
}
