package quizgen

import (
	"fmt"

	"wiki-quiz/internal/domain"
)

const quizPromptTemplate = `Based on the following Wikipedia article about "%s", generate a quiz with %d questions.

Article Content:
%s

Generate a quiz in JSON format with the following structure:
{
    "questions": [
        {
            "question": "Question text here?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_answer": "A",
            "explanation": "Brief explanation of the correct answer",
            "difficulty": "easy/medium/hard"
        }
    ],
    "related_topics": ["Topic 1", "Topic 2", "Topic 3", "Topic 4", "Topic 5"]
}

Requirements:
- Generate exactly %d questions
- Each question must have exactly %d options
- Correct answer must be A, B, C, or D
- Mix difficulty levels (2-3 easy, 3-4 medium, 1-2 hard)
- Questions should cover different aspects of the article
- Explanations should be 1-2 sentences
- Related topics should be specific and relevant
- Return ONLY valid JSON, no additional text

Generate the quiz now:`

// BuildPrompt renders the generation prompt for article. The output depends only on the article.
func BuildPrompt(article *domain.Article) string {
	return fmt.Sprintf(quizPromptTemplate,
		article.Title,
		domain.QuestionsPerQuiz,
		article.Content,
		domain.QuestionsPerQuiz,
		domain.OptionsPerQuestion,
	)
}
