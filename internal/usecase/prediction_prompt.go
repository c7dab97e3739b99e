package usecase

import (
	"fmt"
	"strings"

	"github.com/mawulip/pronostix/internal/domain/match"
)

const analystSystemPrompt = "Tu es un analyste sportif expert, spécialisé dans les pronostics de football. " +
	"Tu analyses les statistiques, le classement, la forme récente et les confrontations directes " +
	"pour produire des prédictions chiffrées et prudentes. " +
	"Tu réponds uniquement avec un objet JSON valide, sans texte autour."

const predictionAnswerShape = `{
  "match_id": "string",
  "home_team": "string",
  "away_team": "string",
  "predicted_winner": "string",
  "win_probabilities": {"home": 0, "draw": 0, "away": 0},
  "predicted_score": {"home": 0, "away": 0},
  "confidence_level": 0,
  "recommended_bet": "string",
  "key_factors": ["string"],
  "detailed_analysis": "string"
}`

// buildPredictionPrompt renders the gathered context into the analyst
// conversation. Sections with no data are marked unavailable rather than
// omitted so the model never invents them.
func buildPredictionPrompt(
	fixture match.Fixture,
	h2h match.HeadToHead,
	standings []match.Standing,
	homeForm []match.Fixture,
	awayForm []match.Fixture,
	detailed bool,
) (string, string) {
	var b strings.Builder

	fmt.Fprintf(&b, "MATCH À ANALYSER\n")
	fmt.Fprintf(&b, "Identifiant: %s\n", fixture.MatchID)
	fmt.Fprintf(&b, "Compétition: %s\n", valueOrUnknown(fixture.LeagueName))
	fmt.Fprintf(&b, "%s (domicile) contre %s (extérieur)\n", fixture.HomeTeam, fixture.AwayTeam)
	fmt.Fprintf(&b, "Date: %s %s\n", valueOrUnknown(fixture.Date), fixture.Time)

	b.WriteString("\nCLASSEMENT\n")
	if len(standings) == 0 {
		b.WriteString("indisponible\n")
	} else {
		for _, row := range standings {
			if row.TeamID == fixture.HomeTeamID || row.TeamID == fixture.AwayTeamID {
				fmt.Fprintf(&b, "%d. %s - %d pts en %d matchs\n", row.Position, row.TeamName, row.Points, row.Played)
			}
		}
	}

	writeFormSection(&b, fmt.Sprintf("FORME RÉCENTE - %s", fixture.HomeTeam), homeForm)
	writeFormSection(&b, fmt.Sprintf("FORME RÉCENTE - %s", fixture.AwayTeam), awayForm)

	b.WriteString("\nCONFRONTATIONS DIRECTES\n")
	if len(h2h.Matches) == 0 {
		b.WriteString("indisponible\n")
	} else {
		for _, item := range h2h.Matches {
			fmt.Fprintf(&b, "%s: %s %s %s\n", valueOrUnknown(item.Date), item.HomeTeam, item.ResultString(), item.AwayTeam)
		}
	}

	b.WriteString("\nCONSIGNE\n")
	b.WriteString("Produis un pronostic pour ce match. Les probabilités sont des pourcentages. ")
	if detailed {
		b.WriteString("Rédige une analyse détaillée en français (au moins trois paragraphes) dans detailed_analysis. ")
	} else {
		b.WriteString("Rédige une analyse courte en français dans detailed_analysis. ")
	}
	b.WriteString("Réponds exactement avec la structure JSON suivante:\n")
	b.WriteString(predictionAnswerShape)

	return analystSystemPrompt, b.String()
}

func writeFormSection(b *strings.Builder, title string, form []match.Fixture) {
	b.WriteString("\n" + title + "\n")
	if len(form) == 0 {
		b.WriteString("indisponible\n")
		return
	}
	for _, item := range form {
		fmt.Fprintf(b, "%s: %s %s %s\n", valueOrUnknown(item.Date), item.HomeTeam, item.ResultString(), item.AwayTeam)
	}
}

func valueOrUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "inconnu"
	}
	return value
}
