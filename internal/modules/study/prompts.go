package study

// Prompt templates for the three study flows. Wording is part of the product
// contract (the quiz format in particular is parsed by the frontend), so keep
// changes deliberate.

func TutorPrompt(corpus, question string) string {
	return "You are an AI tutor. Use the following notes and your own knowledge to answer the user's question. " +
		"If possible, reference the notes in your answer. " +
		"Format your answer using Markdown (use bold, lists, and headings where appropriate)." +
		"\n\nNotes:\n" + corpus +
		"\n\nUser's question: " + question + "\n\n" +
		"Answer using both the notes and your own knowledge, but prefer the notes if relevant."
}

func QuizPrompt(corpus, topic string) string {
	return "You are an AI quiz generator. Use the following notes and your own knowledge to generate 5 multiple-choice questions for the user to test their understanding. " +
		"Each question should have 4 options (a, b, c, d) and indicate the correct answer at the end as 'Answer: x'. " +
		"If a topic is provided, focus the questions on that topic. " +
		"Format the questions exactly as: \n1. Question text\na) Option 1\nb) Option 2\nc) Option 3\nd) Option 4\nAnswer: b\n\n" +
		"If possible, reference the notes in your questions.\n\n" +
		"Notes:\n" + corpus + "\n\n" +
		"Topic: " + topic + "\n\n" +
		"Generate 5 multiple-choice questions."
}

func SummaryPrompt(corpus string) string {
	return "You are an AI summarizer. Summarize the following notes in a concise and clear way, using bullet points or short paragraphs where appropriate. " +
		"Focus on the key concepts, facts, and important details.\n\n" +
		"Notes Content:\n" + corpus + "\n\n" +
		"Summary:"
}
