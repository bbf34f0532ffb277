// Package narrative writes the visit duration and a short Japanese
// explanation for a ranked candidate from its score breakdown.
package narrative

import (
	"fmt"
	"strings"

	"tourism/internal/models"
)

// Estimated visit durations in minutes.
const (
	RestaurantStayMinutes = 60
	PlaceStayMinutes      = 90
)

// Narrate sets spot.StayMinutes and spot.Reason. A missing breakdown or
// missing keys shorten the sentence.
func Narrate(spot *models.Spot) {
	stay := PlaceStayMinutes
	if spot.Category == models.CategoryRestaurant {
		stay = RestaurantStayMinutes
	}
	spot.StayMinutes = &stay
	spot.Reason = Reason(spot)
}

// Reason builds the explanation without modifying spot.
func Reason(spot *models.Spot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s は %s にあるスポットです。", spot.Name, spot.Address)

	bd := spot.Breakdown
	if spot.Category == models.CategoryRestaurant {
		b.WriteString("飲食店として")
		if v, ok := bd.Get(models.KeyBudgetScore); ok {
			b.WriteString(budgetPhrase(v))
		}
		if v, ok := bd.Get(models.KeyQualityScore); ok {
			b.WriteString(qualityPhrase(v))
		}
		return b.String()
	}

	if v, ok := bd.Get(models.KeyPopularityScore); ok {
		b.WriteString(popularityPhrase(v))
	}
	if v, ok := bd.Get(models.KeyDistanceKm); ok {
		b.WriteString(distancePhrase(v))
	}
	return b.String()
}

func budgetPhrase(score float64) string {
	switch {
	case score >= 5:
		return "とても安い価格帯で利用でき、"
	case score >= 4:
		return "比較的利用しやすい価格帯で、"
	case score >= 3:
		return "標準的な価格帯で、"
	default:
		return "少し高めの価格帯ですが、"
	}
}

func qualityPhrase(score float64) string {
	if score >= 5 {
		return "設備や紹介文の情報量が多く、品質面でも期待できるお店です。"
	}
	return "基本的な設備情報が揃っているお店です。"
}

func popularityPhrase(score float64) string {
	switch {
	case score >= 7:
		return "Google 上での評価や口コミ数が特に高く、人気の観光スポットです。"
	case score >= 5:
		return "評価と口コミ数がバランス良く高いスポットです。"
	default:
		return "一定の評価を得ているスポットです。"
	}
}

func distancePhrase(km float64) string {
	switch {
	case km <= 1:
		return "駅から徒歩圏内にあり、アクセスしやすい点もおすすめです。"
	case km <= 5:
		return "駅から電車やバスで移動しやすい距離にあります。"
	default:
		return "少し距離はありますが、目的地として訪れる価値があります。"
	}
}
