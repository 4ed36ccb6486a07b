package chess

import (
	"fmt"
	"strings"
)

// PGN serializes the full game in Portable Game Notation: tag pairs plus
// the SAN movetext. Import replays each SAN token against the legal moves
// of the reconstructed position, so an imported game carries full history.
type PGN struct{}

// startingFEN is the six-field encoding of the standard starting position.
const startingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Serialize writes the seven-tag roster (placeholder values for the tags
// this engine does not track), a FEN/SetUp pair when the game did not start
// from the standard position, and the movetext with the result token.
func (PGN) Serialize(g *Game) (string, error) {
	var sb strings.Builder

	result := pgnResult(g)
	for _, tag := range []struct{ key, value string }{
		{"Event", "?"},
		{"Site", "?"},
		{"Date", "????.??.??"},
		{"Round", "?"},
		{"White", "?"},
		{"Black", "?"},
		{"Result", result},
	} {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", tag.key, tag.value)
	}

	initialBoard := g.boards.At(0)
	initialCond := g.conditions.At(0)
	if !initialBoard.KingSquare(White).IsValid() || !initialBoard.KingSquare(Black).IsValid() {
		return "", ErrMissingKing
	}
	initialFEN := encodePosition(initialBoard, initialCond)
	if initialFEN != startingFEN {
		fmt.Fprintf(&sb, "[SetUp \"1\"]\n[FEN \"%s\"]\n", initialFEN)
	}
	sb.WriteString("\n")

	var tokens []string
	number := initialCond.FullMoveNumber
	side := initialCond.SideToMove
	for i, hm := range g.HalfMoves() {
		if side == White {
			tokens = append(tokens, fmt.Sprintf("%d.", number))
		} else {
			if i == 0 {
				tokens = append(tokens, fmt.Sprintf("%d...", number))
			}
			number++
		}
		tokens = append(tokens, hm.Notation)
		side = side.Opponent()
	}
	tokens = append(tokens, result)
	sb.WriteString(strings.Join(tokens, " "))
	sb.WriteString("\n")
	return sb.String(), nil
}

// Deserialize reconstructs a game by replaying the movetext. Comments,
// variations, NAGs and annotation suffixes are skipped; tag pairs other
// than FEN are ignored. A decisive result token on an unfinished position
// is recorded as a resignation.
func (PGN) Deserialize(s string) (*Game, error) {
	tags, movetext := splitPGN(s)

	var g *Game
	if fen, ok := tags["FEN"]; ok {
		var err error
		g, err = FEN{}.Deserialize(fen)
		if err != nil {
			return nil, fmt.Errorf("%w: FEN tag: %s", ErrInvalidPGN, err)
		}
	} else {
		g = NewGame()
	}

	result := ""
	for _, token := range tokenizeMovetext(movetext) {
		if isResultToken(token) {
			result = token
			break
		}
		mv, ok := g.findMoveBySAN(token)
		if !ok {
			return nil, fmt.Errorf("%w: no legal move matches %q", ErrInvalidPGN, token)
		}
		if err := g.ExecuteMove(mv); err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidPGN, token, err)
		}
	}

	if !g.Ended() {
		switch result {
		case "1-0":
			if err := g.Resign(Black); err != nil {
				return nil, err
			}
		case "0-1":
			if err := g.Resign(White); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func pgnResult(g *Game) string {
	if !g.Ended() {
		return "*"
	}
	_, winner, drawn := g.Result()
	switch {
	case drawn:
		return "1/2-1/2"
	case winner == White:
		return "1-0"
	default:
		return "0-1"
	}
}

// splitPGN separates tag pairs from movetext.
func splitPGN(s string) (map[string]string, string) {
	tags := make(map[string]string)
	var movetext []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if key, value, ok := parseTagPair(line); ok {
				tags[key] = value
				continue
			}
		}
		movetext = append(movetext, line)
	}
	return tags, strings.Join(movetext, " ")
}

func parseTagPair(line string) (key, value string, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	open := strings.Index(inner, "\"")
	end := strings.LastIndex(inner, "\"")
	if open < 0 || end <= open {
		return "", "", false
	}
	key = strings.TrimSpace(inner[:open])
	value = inner[open+1 : end]
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// tokenizeMovetext strips comments, variations, NAGs and move numbers,
// leaving SAN tokens and at most one trailing result token.
func tokenizeMovetext(s string) []string {
	var tokens []string
	depth := 0
	for _, raw := range strings.Fields(braceAndSemicolonFree(s)) {
		switch {
		case strings.HasPrefix(raw, "("):
			depth += strings.Count(raw, "(") - strings.Count(raw, ")")
			continue
		case depth > 0:
			depth += strings.Count(raw, "(") - strings.Count(raw, ")")
			continue
		case strings.HasPrefix(raw, "$"):
			continue
		}
		token := stripMoveNumber(raw)
		if token == "" {
			continue
		}
		token = strings.ReplaceAll(token, "0-0-0", "O-O-O")
		token = strings.ReplaceAll(token, "0-0", "O-O")
		tokens = append(tokens, token)
	}
	return tokens
}

// braceAndSemicolonFree removes {...} comments and ;-to-end-of-line
// comments before field splitting.
func braceAndSemicolonFree(s string) string {
	var sb strings.Builder
	inBrace := false
	inLineComment := false
	for _, c := range s {
		switch {
		case inBrace:
			if c == '}' {
				inBrace = false
			}
		case inLineComment:
			if c == '\n' {
				inLineComment = false
				sb.WriteRune(c)
			}
		case c == '{':
			inBrace = true
		case c == ';':
			inLineComment = true
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// stripMoveNumber drops a leading move number with its dots, handling both
// "1." as its own field and glued forms like "1.e4" and "3...Nf6".
func stripMoveNumber(token string) string {
	if isResultToken(token) {
		return token
	}
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 {
		return token
	}
	j := i
	for j < len(token) && token[j] == '.' {
		j++
	}
	if j == i {
		// Digits without dots: not a move number.
		return token
	}
	return token[j:]
}

func isResultToken(token string) bool {
	switch token {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
