package content

import "github.com/okjk/jekyllctl/internal/models"

// Templates returns the front-matter presets offered by the editor, keyed
// by template id.
func Templates() map[string]models.Template {
	return map[string]models.Template{
		"blank": {
			Label:      "빈 템플릿",
			Tags:       []string{},
			Categories: []string{},
		},
		"main": {
			Label:      "Main",
			Tags:       []string{"post"},
			Categories: []string{"main"},
		},
		"pov": {
			Label:      "POV",
			Tags:       []string{"post"},
			Categories: []string{"POV"},
		},
		"data-analysis": {
			Label:      "데이터 분석",
			Title:      "데이터들 - ",
			Tags:       []string{"post", "data"},
			Categories: []string{"POV"},
		},
		"career": {
			Label:      "커리어/일 이야기",
			Title:      "일 이야기 - ",
			Tags:       []string{"post", "storytelling", "career"},
			Categories: []string{"POV"},
		},
	}
}
