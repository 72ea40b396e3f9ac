package shell

import "github.com/chzyer/readline"

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("move"),
	readline.PcItem("play"),
	readline.PcItem("search"),
	readline.PcItem("solve",
		readline.PcItem("-file"),
		readline.PcItem("-time"),
	),
	readline.PcItem("undo"),
	readline.PcItem("show"),
	readline.PcItem("compact"),
	readline.PcItem("load",
		readline.PcItem("-file"),
	),
	readline.PcItem("weights"),
	readline.PcItem("set",
		readline.PcItem("threads"),
		readline.PcItem("time"),
	),
	readline.PcItem("perf"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)
