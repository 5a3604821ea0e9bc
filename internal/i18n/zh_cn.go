package i18n

// ZhCNMessages 简体中文消息表
// ZhCNMessages is the Simplified Chinese catalog. The summarize prompt is not
// overridden: it is model input and stays in English.
var ZhCNMessages = map[string]string{
	KeyErrorMessage:    "抱歉，处理您的请求时出错了。",
	KeyErrorSummarize:  "抱歉，总结消息时出错了。",
	KeyTicketCreated:   "\n\n已为您的想法创建 Notion 工单：%s",
	KeySummaryHeader:   "最近对话总结（使用 %s）：\n%s",
	KeyContextCleared:  "对话上下文已清除。",
	KeyBackendSwitched: "AI 模型已切换为 %s",
	KeyUnknownCommand:  "未知命令：%s",

	KeyConsoleHelp: "命令：\n" +
		"  /summarize       总结最近的对话\n" +
		"  /clear_context   清除你的对话上下文\n" +
		"  /switch_ai       在 GPT 与 CLAUDE 之间切换\n" +
		"  /context         查看上下文窗口\n" +
		"  /help\n" +
		"  /exit",
	KeyConsoleContext:   "上下文：%d 条，%d/%d 字符，约 %d tokens（后端 %s）",
	KeyConsoleNoContext: "上下文：空（后端 %s）",
}
