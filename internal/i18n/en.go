package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	KeyErrorMessage:   "Sorry, there was an error processing your request.",
	KeyErrorSummarize: "Sorry, there was an error summarizing the messages.",
	KeyTicketCreated:  "\n\nI've created a Notion ticket for your idea: %s",
	KeySummaryHeader:  "Recent conversation summary (using %s):\n%s",
	// the prompt goes to the model, not the user; kept here so it sits next to the header
	KeySummarizePrompt: "Please summarize the following conversation:\n\n%s\n\nSummary:",
	KeyContextCleared:  "Conversation context has been cleared.",
	KeyBackendSwitched: "AI model switched to %s",
	KeyUnknownCommand:  "Unknown command: %s",

	KeyConsoleHelp: "Commands:\n" +
		"  /summarize       summarize the recent conversation\n" +
		"  /clear_context   forget your conversation context\n" +
		"  /switch_ai       toggle between GPT and CLAUDE\n" +
		"  /context         show your context window\n" +
		"  /help\n" +
		"  /exit",
	KeyConsoleContext:   "Context: %d turns, %d/%d chars, ~%d tokens (backend %s)",
	KeyConsoleNoContext: "Context: empty (backend %s)",
}
