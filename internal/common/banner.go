package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the active driver selection
func PrintBanner(config *Config, logger arbor.ILogger) {
	b := banner.New().SetStyle(banner.StyleDouble).SetWidth(60).SetBold(true)
	b.PrintTopLine()
	b.PrintCenteredText("ragkit")
	b.PrintCenteredText(GetVersion())
	b.PrintSeparatorLine()
	b.PrintKeyValue("Prompt", string(config.Drivers.Prompt), 14)
	b.PrintKeyValue("Embedding", string(config.Drivers.Embedding), 14)
	b.PrintKeyValue("Vector store", string(config.Drivers.VectorStore), 14)
	b.PrintBottomLine()

	logger.Info().
		Str("prompt_driver", string(config.Drivers.Prompt)).
		Str("embedding_driver", string(config.Drivers.Embedding)).
		Str("vector_store_driver", string(config.Drivers.VectorStore)).
		Str("badger_path", config.Storage.Badger.Path).
		Msg("Configuration loaded")
}
