package match

import "strings"

// Fixture is one match row from the football data provider. IDs are the
// provider's string keys, carried verbatim.
type Fixture struct {
	MatchID     string
	LeagueID    string
	LeagueName  string
	HomeTeamID  string
	AwayTeamID  string
	HomeTeam    string
	AwayTeam    string
	Date        string
	Time        string
	Status      string
	FinalResult string
	HomeScore   string
	AwayScore   string
}

// Standing is one league-table row.
type Standing struct {
	LeagueName string
	TeamID     string
	TeamName   string
	Position   int
	Played     int
	Points     int
}

// HeadToHead bundles the provider's direct-confrontation history for two teams.
type HeadToHead struct {
	FirstTeam  string
	SecondTeam string
	Matches    []Fixture
}

// Country and League back the browse/filter views.
type Country struct {
	ID   string
	Name string
	Logo string
}

type League struct {
	ID        string
	Name      string
	CountryID string
	Logo      string
}

// Team is one club row, with the roster when the provider includes it.
type Team struct {
	ID      string
	Name    string
	Badge   string
	Players []Player
}

// Player positions come through as the provider's section labels
// (Goalkeepers, Defenders, Midfielders, Forwards).
type Player struct {
	ID       string
	Name     string
	Number   string
	Position string
	Age      string
	Goals    int
}

func (f Fixture) Finished() bool {
	return strings.EqualFold(strings.TrimSpace(f.Status), "Finished")
}

// ResultString is the compact "2 - 1" form used when summarizing recent form.
func (f Fixture) ResultString() string {
	if strings.TrimSpace(f.FinalResult) != "" {
		return f.FinalResult
	}
	if f.HomeScore == "" && f.AwayScore == "" {
		return "-"
	}
	return f.HomeScore + " - " + f.AwayScore
}
