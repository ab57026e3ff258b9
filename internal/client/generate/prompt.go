package generate

import (
	"fmt"

	"github.com/ekoshkin/recallbox/internal/client/models"
)

// buildPrompt renders the per-category instruction sent to the model.
// Vocabulary, phrase and definition cards ask for real generated content;
// the remaining categories only acknowledge the stored fact, keeping the
// model response short.
func buildPrompt(category models.Category, input, context string) string {
	switch category {
	case models.CategoryVocabulary:
		return fmt.Sprintf(`Provide a detailed definition of the word %q followed by two distinct example sentences that use this word correctly. Format the response as follows:
Definition: [definition here]

Example 1: [first example sentence]

Example 2: [second example sentence]`, input)

	case models.CategoryPhrases:
		return fmt.Sprintf(`Provide a brief description of the phrase %q and explain when/how it would typically be used. Format the response as follows:
Description: [description here]

Usage: [usage explanation]`, input)

	case models.CategoryDefinitions:
		return fmt.Sprintf("Provide a comprehensive and clear definition of the term %q.", input)

	case models.CategoryQuestions:
		if context == "" {
			context = "various topics"
		}
		return fmt.Sprintf(`The following is a question: %q
This question would be relevant in contexts related to: %s
Please acknowledge this question has been recorded.`, input, context)

	case models.CategoryBusiness:
		if context == "" {
			context = "various business contexts"
		}
		return fmt.Sprintf(`The following is a business fact: %q
This fact is particularly applicable to: %s
Please acknowledge this business fact has been recorded.`, input, context)

	case models.CategoryOther:
		return fmt.Sprintf(`The following information has been provided: %q
Please acknowledge this information has been recorded.`, input)
	}

	return fmt.Sprintf("Generate content related to: %s", input)
}
