package store

// Question is one entry of the fixed intake questionnaire
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Questions is the fixed set of intake questions, in presentation order.
// Every id must have a non-blank answer before a questionnaire is accepted.
var Questions = []Question{
	{ID: "question1", Text: "How would you describe your current mood most days?"},
	{ID: "question2", Text: "What activities bring you joy or a sense of accomplishment?"},
	{ID: "question3", Text: "How do you typically handle stress or pressure?"},
	{ID: "question4", Text: "What are your primary goals for personal growth right now?"},
	{ID: "question5", Text: "How would you rate your overall energy levels on a scale of 1-10? (1=very low, 10=very high)"},
	{ID: "question6", Text: "What aspects of your life do you feel most grateful for?"},
	{ID: "question7", Text: "Are there any recurring thoughts or worries that occupy your mind?"},
	{ID: "question8", Text: "How connected do you feel to others (friends, family, community)?"},
	{ID: "question9", Text: "What does a 'good day' look like for you?"},
	{ID: "question10", Text: "Is there anything specific you'd like to focus on or discuss during our interactions?"},
}
