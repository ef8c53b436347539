package brackets

import (
	"github.com/clubmatch/tournament-engine/models"
)

// BuildTeams turns an ordered player list into teams for the given
// team size (1 or 2). For doubles the input is expected pre-paired:
// players[0]+players[1] form the first team, and so on. Pairing policy
// is the caller's concern; this only validates composition.
//
// Pure function: the returned teams carry no IDs, persistence is the
// caller's job.
func BuildTeams(tournamentID int, players []models.Player, teamSize int) ([]models.Team, error) {
	if teamSize != 1 && teamSize != 2 {
		return nil, ErrInvalidTeamComposition
	}
	if len(players) == 0 || len(players)%teamSize != 0 {
		return nil, ErrInvalidTeamComposition
	}

	seen := make(map[int]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return nil, ErrInvalidTeamComposition
		}
		seen[p.ID] = true
	}

	teams := make([]models.Team, 0, len(players)/teamSize)
	for i := 0; i < len(players); i += teamSize {
		p1 := players[i]
		team := models.Team{
			TournamentID: tournamentID,
			Kind:         models.TeamKindSingle,
			Player1ID:    p1.ID,
			Player1:      &p1,
		}
		if teamSize == 2 {
			p2 := players[i+1]
			team.Kind = models.TeamKindDouble
			team.Player2ID = &p2.ID
			team.Player2 = &p2
		}
		teams = append(teams, team)
	}
	return teams, nil
}
