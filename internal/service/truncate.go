package service

// briefContentLimit bounds the content excerpt embedded in notification
// messages.
const briefContentLimit = 50

// truncateContent shortens long content to a brief excerpt, cutting at
// the last natural break (space, comma, Arabic comma or dot) within the
// limit so words are not split mid-way.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= briefContentLimit {
		return content
	}

	head := runes[:briefContentLimit]
	cut := -1
	for i := len(head) - 1; i > 0; i-- {
		r := head[i]
		if r == ' ' || r == ',' || r == '،' || r == '.' {
			cut = i
			break
		}
	}
	if cut <= 0 {
		cut = len(head)
	}

	return string(head[:cut]) + "..."
}
