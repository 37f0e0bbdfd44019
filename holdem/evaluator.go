package holdem

import (
	"fmt"

	"github.com/chehsunliu/poker"

	"github.com/hkirat/poker/card"
)

// bestHandResult is the outcome of scoring the best 5-card hand out of a
// 7-card pool. Score is "bigger is better" regardless of the underlying
// library's own ordering, so callers never need to know chehsunliu/poker
// ranks smaller as stronger.
type bestHandResult struct {
	Score       uint32 // Larger is stronger.
	HandType    byte
	Description string
	BestFive    card.CardList
}

// EvalBestOf7 evaluates the best 5-card hand out of up to 7 cards (2 hole +
// up to 5 community). chehsunliu/poker.Evaluate already searches every
// C(n,5) combination internally, so no explicit combinatorial loop is
// needed here the way the teacher's Cactus Kev table-based approach
// required one.
func EvalBestOf7(cards card.CardList) *bestHandResult {
	if len(cards) < 5 || len(cards) > 7 {
		return nil
	}

	converted := make([]poker.Card, 0, len(cards))
	for _, c := range cards {
		pc, err := toChehsunliuCard(c)
		if err != nil {
			return nil
		}
		converted = append(converted, pc)
	}

	rank := poker.Evaluate(converted)
	rankClass := poker.RankClass(rank)

	handType := handTypeFromRankClass(rankClass)
	if rank == 1 {
		handType = HandRoyalFlush
	}

	return &bestHandResult{
		Score:       invertRank(rank),
		HandType:    handType,
		Description: poker.RankString(rank),
		BestFive:    bestFiveOf(cards, rank),
	}
}

// bestFiveOf finds which 5-card subset of a 6- or 7-card pool produces the
// given chehsunliu rank, trying every C(n,5) combination. chehsunliu has no
// native "which cards" API, so this mirrors the combination search used to
// recover the winning subset.
func bestFiveOf(cards card.CardList, targetRank int32) card.CardList {
	if len(cards) == 5 {
		return append(card.CardList{}, cards...)
	}

	var best card.CardList
	combinations(cards, 5, func(combo card.CardList) bool {
		converted := make([]poker.Card, 0, 5)
		for _, c := range combo {
			pc, err := toChehsunliuCard(c)
			if err != nil {
				return false
			}
			converted = append(converted, pc)
		}
		if poker.Evaluate(converted) == targetRank {
			best = append(card.CardList{}, combo...)
			return true
		}
		return false
	})
	if best == nil {
		best = append(card.CardList{}, cards[:5]...)
	}
	return best
}

// combinations walks every k-combination of cards, stopping early when fn
// returns true.
func combinations(cards card.CardList, k int, fn func(card.CardList) bool) {
	if k > len(cards) || k <= 0 {
		return
	}
	current := make(card.CardList, 0, k)
	var generate func(start int) bool
	generate = func(start int) bool {
		if len(current) == k {
			return fn(current)
		}
		for i := start; i <= len(cards)-(k-len(current)); i++ {
			current = append(current, cards[i])
			if generate(i + 1) {
				return true
			}
			current = current[:len(current)-1]
		}
		return false
	}
	generate(0)
}

// eval5 scores exactly 5 cards; kept as a thin wrapper so existing
// callers/tests written against a 5-card entry point keep working.
func eval5(a, b, c, d, e card.Card) (score uint32, handType byte) {
	res := EvalBestOf7(card.CardList{a, b, c, d, e})
	if res == nil {
		return 0, 0
	}
	return res.Score, res.HandType
}

// chehsunliu's raw rank is "smaller is better" (1 == best possible hand);
// SPEC_FULL.md's OrderingKey contract wants "bigger is better", so invert
// at this single boundary.
const chehsunliuMaxRank = 7462

func invertRank(rank int32) uint32 {
	return uint32(chehsunliuMaxRank + 1 - int(rank))
}

func handTypeFromRankClass(rankClass int32) byte {
	switch rankClass {
	case 1:
		return HandStraightFlush
	case 2:
		return HandFourOfKind
	case 3:
		return HandFullHouse
	case 4:
		return HandFlush
	case 5:
		return HandStraight
	case 6:
		return HandThreeOfKind
	case 7:
		return HandTwoPair
	case 8:
		return HandOnePair
	default:
		return HandHighCard
	}
}

func toChehsunliuCard(c card.Card) (poker.Card, error) {
	var rankChar byte
	switch c.Rank() {
	case 1:
		rankChar = 'A'
	case 2, 3, 4, 5, 6, 7, 8, 9:
		rankChar = '0' + c.Rank()
	case 10:
		rankChar = 'T'
	case 11:
		rankChar = 'J'
	case 12:
		rankChar = 'Q'
	case 13:
		rankChar = 'K'
	default:
		var zero poker.Card
		return zero, fmt.Errorf("invalid rank in card %v", c)
	}

	var suitChar byte
	switch c.Suit() {
	case card.Spade:
		suitChar = 's'
	case card.Heart:
		suitChar = 'h'
	case card.Club:
		suitChar = 'c'
	case card.Diamond:
		suitChar = 'd'
	default:
		var zero poker.Card
		return zero, fmt.Errorf("invalid suit in card %v", c)
	}

	return poker.NewCard(string([]byte{rankChar, suitChar})), nil
}
