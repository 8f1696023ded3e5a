package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devmatch/devmatch/internal/deck"
)

// MaxSkills is how many skill tags fit on a card
const MaxSkills = 3

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	DeckPath string
	Results  ValidationResults

	config *deck.DeckConfig
}

func NewValidator(deckPath string) *Validator {
	return &Validator{
		DeckPath: deckPath,
		Results:  ValidationResults{},
	}
}

// Validate checks deck.toml and every profile in it. A deck.toml that is
// missing or cannot be parsed is returned as an error; everything else is
// collected in the results.
func (v *Validator) Validate() (ValidationResults, error) {
	if err := v.validateDeckToml(); err != nil {
		return v.Results, err
	}

	v.validateProfiles()
	v.validateImages()

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) validateDeckToml() error {
	config, err := deck.ReadConfig(v.DeckPath)
	if err != nil {
		return err
	}
	v.config = config

	d := config.Deck
	if d.ID == "" {
		v.errorf("deck.id is required in deck.toml")
	}
	if d.Name == "" {
		v.errorf("deck.name is required in deck.toml")
	}
	if d.Version == "" {
		v.errorf("deck.version is required in deck.toml")
	}

	if d.SchemaVersion == "" {
		v.errorf("deck.schema_version is required in deck.toml")
	} else if d.SchemaVersion != deck.SchemaVersion {
		v.errorf("unsupported schema_version: %s (supported: %s)", d.SchemaVersion, deck.SchemaVersion)
	}

	if d.Description == "" {
		v.warnf("deck.description is empty")
	}
	return nil
}

// validateProfiles checks the fields of each [[profiles]] entry
func (v *Validator) validateProfiles() {
	if len(v.config.Profiles) == 0 {
		v.errorf("deck has no [[profiles]] entries")
		return
	}

	seen := make(map[string]int)
	for i, p := range v.config.Profiles {
		where := profileRef(i, p)

		if p.ID == "" {
			v.warnf("%s has no id; one is generated on every load", where)
		} else if first, ok := seen[p.ID]; ok {
			v.errorf("%s reuses id %q of profiles[%d]", where, p.ID, first)
		} else {
			seen[p.ID] = i
		}

		if strings.TrimSpace(p.Name) == "" {
			v.errorf("%s: name is required", where)
		}
		if strings.TrimSpace(p.Job) == "" {
			v.errorf("%s: job is required", where)
		}

		if len(p.Skills) > MaxSkills {
			v.errorf("%s has %d skills (at most %d fit on a card)", where, len(p.Skills), MaxSkills)
		}
		for _, s := range p.Skills {
			if strings.TrimSpace(s) == "" {
				v.errorf("%s has an empty skill", where)
				break
			}
		}

		if p.Rating < 0 || p.Rating > 5 {
			v.errorf("%s: rating %.1f is outside 0..5", where, p.Rating)
		}
		if p.Reviews < 0 {
			v.errorf("%s: reviews cannot be negative", where)
		}

		if p.Portfolio == nil {
			v.warnf("%s has no portfolio", where)
		} else {
			for j, proj := range p.Portfolio.Projects {
				if proj.Name == "" {
					v.errorf("%s: portfolio.projects[%d].name is required", where, j)
				}
			}
		}
	}
}

// validateImages checks that every referenced photo exists inside the deck
func (v *Validator) validateImages() {
	for i, p := range v.config.Profiles {
		where := profileRef(i, p)

		if p.Image == "" {
			v.warnf("%s has no image", where)
			continue
		}
		if filepath.IsAbs(p.Image) {
			v.warnf("%s uses an absolute image path; the deck is not portable", where)
		}

		imagePath := p.Image
		if !filepath.IsAbs(imagePath) {
			imagePath = filepath.Join(v.DeckPath, imagePath)
		}

		info, err := os.Stat(imagePath)
		switch {
		case os.IsNotExist(err):
			v.errorf("%s: image not found: %s", where, p.Image)
		case err != nil:
			v.errorf("%s: error reading image %s: %v", where, p.Image, err)
		case info.IsDir():
			v.errorf("%s: image %s is a directory", where, p.Image)
		case !supportedImage(p.Image):
			v.warnf("%s: image %s cannot be rendered in the terminal (use png, jpeg or gif)", where, p.Image)
		}
	}
}

func supportedImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func profileRef(i int, p deck.ProfileSection) string {
	if p.ID != "" {
		return fmt.Sprintf("profile %q", p.ID)
	}
	return fmt.Sprintf("profiles[%d]", i)
}
