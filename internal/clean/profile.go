package clean

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile is a cleaning recipe for one raw table.
type Profile struct {
	// Renames maps a raw header, trimmed, to its canonical name. Headers are
	// also looked up after mojibake repair.
	Renames map[string]string `yaml:"renames"`
	// SkipRows drops this many leading data rows (banner rows below the header).
	SkipRows int `yaml:"skip_rows"`
	// Dedupe drops exact duplicate data rows, keeping the first.
	Dedupe bool `yaml:"dedupe"`
	// Repair runs RepairText over every header and cell.
	Repair bool `yaml:"repair"`
	// DropIndex removes a leading unnamed column written by dataframe tools.
	DropIndex bool `yaml:"drop_index"`
	// ExpectColumns fails the clean when the header width differs. 0 disables.
	ExpectColumns int `yaml:"expect_columns"`
}

// Built-in profile names.
const (
	ProfileCurated = "curated"
	ProfileRatings = "ratings"
)

// CuratedProfile cleans the curated spreadsheet export. Its header row holds
// banner text, so the real column names are restored by rename and the first
// data row, which repeats the sheet title, is dropped.
func CuratedProfile() Profile {
	return Profile{
		Renames: map[string]string{
			"This list was put together by the Woke Content Detector Steam group with assistance from members of RPGHQ.": "Game",
			"ðŸ‘‰": "Release Year",
			"Steam Group Link: https://steamcommunity.com/groups/Woke_Content_Detector": "Developer",
			"Curator Link: https://store.steampowered.com/curator/44927664-Woke-Content-Detector/": "Publisher",
			"ðŸ‘ˆ": "Rating",
			"👉": "Release Year",
			"👈": "Rating",
			"If you would like to support our work, please join our Steam group and follow our curator. Thank you!": "Review",
		},
		SkipRows:  1,
		Dedupe:    true,
		Repair:    true,
		DropIndex: true,
	}
}

// RatingsProfile cleans the extracted RAWG ratings table.
func RatingsProfile() Profile {
	return Profile{
		Dedupe:    true,
		Repair:    true,
		DropIndex: true,
	}
}

// Builtin returns the named built-in profile.
func Builtin(name string) (Profile, bool) {
	switch name {
	case ProfileCurated:
		return CuratedProfile(), true
	case ProfileRatings:
		return RatingsProfile(), true
	default:
		return Profile{}, false
	}
}

// ProfileSet is a set of named profiles loaded from YAML.
type ProfileSet struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads profiles from a YAML file with a top-level "clean" key.
func LoadProfiles(path string) (*ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "clean: read profiles %s", path)
	}

	var wrapper struct {
		Clean ProfileSet `yaml:"clean"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "clean: parse profiles")
	}

	set := &wrapper.Clean
	for name, p := range set.Profiles {
		if p.SkipRows < 0 {
			return nil, eris.Errorf("clean: profile %q: skip_rows must not be negative", name)
		}
	}
	return set, nil
}

// Get returns the named profile, falling back to the built-in of the same
// name. A nil set only has built-ins.
func (s *ProfileSet) Get(name string) (Profile, error) {
	if s != nil {
		if p, ok := s.Profiles[name]; ok {
			return p, nil
		}
	}
	if p, ok := Builtin(name); ok {
		return p, nil
	}
	return Profile{}, eris.Errorf("clean: unknown profile %q", name)
}

// header returns the canonical name for a raw header cell.
func (p Profile) header(raw string) string {
	if name, ok := p.Renames[raw]; ok {
		return name
	}
	if !p.Repair {
		return raw
	}
	fixed := RepairText(raw)
	if name, ok := p.Renames[fixed]; ok {
		return name
	}
	return fixed
}
