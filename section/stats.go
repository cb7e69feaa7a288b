package section

// Stat describes one module body packed into a section. Length is the body
// size in bytes before padding, including its leading JUMPDEST.
type Stat struct {
	Source  string `json:"source"`
	Section int    `json:"section"`
	Length  int    `json:"length"`
}

func copyStats(src []Stat) []Stat {
	if src == nil {
		return nil
	}
	dst := make([]Stat, len(src))
	copy(dst, src)
	return dst
}
