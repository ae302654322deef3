// Package stats считает статистику по партиям игрока. Вызывающий передаёт
// партии одного игрока, уже упорядоченные от новых к старым; к хранилищу
// пакет не обращается.
package stats

import (
	"math"
	"sort"

	"github.com/Dosada05/chess-statistics/models"
)

// RecentGamesLimit задаёт число партий в GameStatistics.RecentGames.
const RecentGamesLimit = 5

type resultCounts struct {
	wins, losses, draws int
}

func countResults(games []models.Game) resultCounts {
	var c resultCounts
	for _, g := range games {
		switch g.Result {
		case models.ResultWin:
			c.wins++
		case models.ResultLoss:
			c.losses++
		case models.ResultDraw:
			c.draws++
		}
	}
	return c
}

// WinRate возвращает долю побед в процентах без округления, 0 при total == 0.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// roundHalfUp округляет до ближайшего целого, половины вверх.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Compute считает статистику по партиям, упорядоченным от новых к старым.
//
// RatingChange равен rating.after самой новой партии минус rating.before самой
// старой в переданной выборке. Для неполной выборки это изменение только
// внутри неё.
func Compute(games []models.Game) models.GameStatistics {
	if len(games) == 0 {
		return models.GameStatistics{RecentGames: []models.Game{}}
	}

	c := countResults(games)

	st := models.GameStatistics{
		TotalGames: len(games),
		Wins:       c.wins,
		Losses:     c.losses,
		Draws:      c.draws,
		WinRate:    WinRate(c.wins, len(games)),
	}

	st.RatingChange = games[0].Rating.After - games[len(games)-1].Rating.Before

	sum := 0
	for _, g := range games {
		sum += g.Rating.After

		switch g.TimeControl {
		case models.TimeControlBullet:
			st.GamesByTimeControl.Bullet++
		case models.TimeControlBlitz:
			st.GamesByTimeControl.Blitz++
		case models.TimeControlRapid:
			st.GamesByTimeControl.Rapid++
		case models.TimeControlClassical:
			st.GamesByTimeControl.Classical++
		}

		switch g.Color {
		case models.ColorWhite:
			st.GamesByColor.White++
		case models.ColorBlack:
			st.GamesByColor.Black++
		}
	}
	st.AverageRating = roundHalfUp(float64(sum) / float64(len(games)))

	n := min(RecentGamesLimit, len(games))
	st.RecentGames = make([]models.Game, n)
	copy(st.RecentGames, games[:n])

	return st
}

// Summarize строит краткую статистику игрока по его партиям, упорядоченным
// от новых к старым. Без партий CurrentRating берётся из сохранённого рейтинга.
func Summarize(player models.Player, games []models.Game) models.PlayerWithStats {
	c := countResults(games)
	summary := models.PlayerSummary{
		TotalGames:    len(games),
		Wins:          c.wins,
		Losses:        c.losses,
		Draws:         c.draws,
		WinRate:       WinRate(c.wins, len(games)),
		CurrentRating: player.Rating,
	}
	if len(games) > 0 {
		summary.CurrentRating = games[0].Rating.After
		date := games[0].Date
		summary.LastGameDate = &date
	}
	return models.PlayerWithStats{Player: player, Stats: summary}
}

// SortByLastGame сортирует игроков по дате последней партии, недавние первыми.
// Игроки без партий идут последними; при равенстве порядок сохраняется.
func SortByLastGame(players []models.PlayerWithStats) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].Stats.LastGameDate, players[j].Stats.LastGameDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
}

// GroupByPlayer раскладывает партии по PlayerID, сохраняя их порядок.
func GroupByPlayer(games []models.Game) map[string][]models.Game {
	grouped := make(map[string][]models.Game)
	for _, g := range games {
		grouped[g.PlayerID] = append(grouped[g.PlayerID], g)
	}
	return grouped
}

// WithStats собирает список игроков: игроки приходят по убыванию рейтинга,
// партии новыми первыми. Результат пересортировывается по давности игры.
func WithStats(players []models.Player, games []models.Game) []models.PlayerWithStats {
	grouped := GroupByPlayer(games)
	result := make([]models.PlayerWithStats, 0, len(players))
	for _, p := range players {
		result = append(result, Summarize(p, grouped[p.ID]))
	}
	SortByLastGame(result)
	return result
}
