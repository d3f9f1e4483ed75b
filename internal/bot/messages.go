package bot

import (
	"strings"

	"unit-lookup/internal/models"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	usageMessage = "👋 Hola. Envíame el código de una vivienda o una placa.\n\n" +
		"*Formatos aceptados:*\n" +
		"• `1101` torre 1, apartamento 101\n" +
		"• `1-101` o `1 101` lo mismo, separado\n" +
		"• `T1101` torre con prefijo\n" +
		"• `C90` casa 90\n" +
		"• `HMN835` placa de vehículo"

	invalidMessage = "❌ Formato inválido.\nEjemplo: `1101`, `C90` o `HMN835`."

	storeUnavailableMessage = "⚠️ No pude consultar la base de datos. Intenta más tarde."

	unitNotFoundMessage  = "❌ No encontré información para esa vivienda."
	plateNotFoundMessage = "❌ Placa no encontrada."
)

func notFoundMessage(q models.ParsedQuery) string {
	if q.Kind == models.QueryPlate {
		return plateNotFoundMessage
	}
	return unitNotFoundMessage
}

// formatSummary renders one "glyph *Label:* value" line per field. Values
// come from the sheet and are escaped.
func formatSummary(s *models.Summary, layout matchrecord.Layout) string {
	var b strings.Builder
	for i, l := range matchrecord.Lines(s, layout) {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.Glyph != "" {
			b.WriteString(l.Glyph)
			b.WriteByte(' ')
		}
		b.WriteString("*")
		b.WriteString(l.Label)
		b.WriteString(":* ")
		b.WriteString(tgbotapi.EscapeText(tgbotapi.ModeMarkdown, l.Value))
	}
	return b.String()
}
