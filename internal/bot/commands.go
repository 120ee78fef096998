package bot

// Command constants for Telegram bot commands.
const (
	CommandStart     = "/start"
	CommandCancel    = "/cancelar"
	CommandGoal      = "/meta"
	CommandConfigure = "/configurar"
	CommandSummary   = "/resumo"
	CommandHelp      = "/ajuda"
)

// Main-menu reply keyboard labels routed like commands.
const (
	ButtonNewTransaction = "💰 Nova transação"
	ButtonNewGoal        = "🎯 Nova meta"
	ButtonSummary        = "📊 Resumo"
	ButtonConfigure      = "⚙️ Configurar"
)
