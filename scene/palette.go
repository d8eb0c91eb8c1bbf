package scene

// Palette provides color schemes for graph visualization
type Palette struct {
	NodeColors []string
	EdgeColor  string
	Background string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // Google Blue
			"#EA4335", // Google Red
			"#FBBC05", // Google Yellow
			"#34A853", // Google Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		EdgeColor:  "#FF0000",
		Background: "#f8f8f8",
	}
}

// SurrealPalette is used while the noise layer perturbs the layout: neon
// skins over a near-black background.
func SurrealPalette() *Palette {
	return &Palette{
		NodeColors: []string{"#FF6D00", "#2979FF", "#00E676", "#F50057", "#651FFF", "#C6FF00"},
		EdgeColor:  "#7E57C2",
		Background: "#121212",
	}
}

// NodeColor maps a proxy skin to one of the palette colors.
func (p *Palette) NodeColor(skin int) string {
	if len(p.NodeColors) == 0 {
		return "#808080"
	}
	if skin < 0 {
		skin = -skin
	}
	return p.NodeColors[skin%len(p.NodeColors)]
}
