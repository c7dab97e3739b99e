package footballdata

import (
	"strconv"
	"strings"

	"github.com/mawulip/pronostix/internal/domain/match"
)

// The provider serializes everything as strings, ids included. Wire shapes
// mirror that verbatim and the toDomain converters stay the only place that
// knows the field names.

type matchWire struct {
	MatchID          string `json:"match_id"`
	LeagueID         string `json:"league_id"`
	LeagueName       string `json:"league_name"`
	MatchDate        string `json:"match_date"`
	MatchTime        string `json:"match_time"`
	MatchStatus      string `json:"match_status"`
	HomeTeamID       string `json:"match_hometeam_id"`
	HomeTeamName     string `json:"match_hometeam_name"`
	HomeTeamScore    string `json:"match_hometeam_score"`
	AwayTeamID       string `json:"match_awayteam_id"`
	AwayTeamName     string `json:"match_awayteam_name"`
	AwayTeamScore    string `json:"match_awayteam_score"`
	MatchFinalResult string `json:"match_hometeam_ft_score"`
	AwayFinalScore   string `json:"match_awayteam_ft_score"`
}

func (w matchWire) toDomain() match.Fixture {
	final := ""
	if strings.TrimSpace(w.MatchFinalResult) != "" && strings.TrimSpace(w.AwayFinalScore) != "" {
		final = strings.TrimSpace(w.MatchFinalResult) + " - " + strings.TrimSpace(w.AwayFinalScore)
	}
	return match.Fixture{
		MatchID:     strings.TrimSpace(w.MatchID),
		LeagueID:    strings.TrimSpace(w.LeagueID),
		LeagueName:  strings.TrimSpace(w.LeagueName),
		HomeTeamID:  strings.TrimSpace(w.HomeTeamID),
		AwayTeamID:  strings.TrimSpace(w.AwayTeamID),
		HomeTeam:    strings.TrimSpace(w.HomeTeamName),
		AwayTeam:    strings.TrimSpace(w.AwayTeamName),
		Date:        strings.TrimSpace(w.MatchDate),
		Time:        strings.TrimSpace(w.MatchTime),
		Status:      strings.TrimSpace(w.MatchStatus),
		FinalResult: final,
		HomeScore:   strings.TrimSpace(w.HomeTeamScore),
		AwayScore:   strings.TrimSpace(w.AwayTeamScore),
	}
}

type h2hWire struct {
	FirstVsSecond     []matchWire `json:"firstTeam_VS_secondTeam"`
	FirstLastResults  []matchWire `json:"firstTeam_lastResults"`
	SecondLastResults []matchWire `json:"secondTeam_lastResults"`
}

type standingWire struct {
	LeagueName string `json:"league_name"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Position   string `json:"overall_league_position"`
	Played     string `json:"overall_league_payed"`
	Points     string `json:"overall_league_PTS"`
}

func (w standingWire) toDomain() match.Standing {
	return match.Standing{
		LeagueName: strings.TrimSpace(w.LeagueName),
		TeamID:     strings.TrimSpace(w.TeamID),
		TeamName:   strings.TrimSpace(w.TeamName),
		Position:   parseWireInt(w.Position),
		Played:     parseWireInt(w.Played),
		Points:     parseWireInt(w.Points),
	}
}

type countryWire struct {
	ID   string `json:"country_id"`
	Name string `json:"country_name"`
	Logo string `json:"country_logo"`
}

func (w countryWire) toDomain() match.Country {
	return match.Country{
		ID:   strings.TrimSpace(w.ID),
		Name: strings.TrimSpace(w.Name),
		Logo: strings.TrimSpace(w.Logo),
	}
}

type leagueWire struct {
	ID        string `json:"league_id"`
	Name      string `json:"league_name"`
	CountryID string `json:"country_id"`
	Logo      string `json:"league_logo"`
}

func (w leagueWire) toDomain() match.League {
	return match.League{
		ID:        strings.TrimSpace(w.ID),
		Name:      strings.TrimSpace(w.Name),
		CountryID: strings.TrimSpace(w.CountryID),
		Logo:      strings.TrimSpace(w.Logo),
	}
}

type teamWire struct {
	ID      string       `json:"team_key"`
	Name    string       `json:"team_name"`
	Badge   string       `json:"team_badge"`
	Players []playerWire `json:"players"`
}

func (w teamWire) toDomain() match.Team {
	players := make([]match.Player, 0, len(w.Players))
	for _, p := range w.Players {
		players = append(players, p.toDomain())
	}
	return match.Team{
		ID:      strings.TrimSpace(w.ID),
		Name:    strings.TrimSpace(w.Name),
		Badge:   strings.TrimSpace(w.Badge),
		Players: players,
	}
}

type playerWire struct {
	ID       string `json:"player_key"`
	Name     string `json:"player_name"`
	Number   string `json:"player_number"`
	Position string `json:"player_type"`
	Age      string `json:"player_age"`
	Goals    string `json:"player_goals"`
}

func (w playerWire) toDomain() match.Player {
	return match.Player{
		ID:       strings.TrimSpace(w.ID),
		Name:     strings.TrimSpace(w.Name),
		Number:   strings.TrimSpace(w.Number),
		Position: strings.TrimSpace(w.Position),
		Age:      strings.TrimSpace(w.Age),
		Goals:    parseWireInt(w.Goals),
	}
}

func parseWireInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
