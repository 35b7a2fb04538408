package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordList holds the narrative key terms used for paragraph relevance
// scoring. It is data, not code: callers can load a tuned per-genre list
// from YAML and pass it to the extractor.
type KeywordList struct {
	Terms []string `yaml:"terms"`
}

// DefaultKeywords is the built-in bilingual list of narrative key
// verbs/nouns: action vocabulary plus fantasy-genre staples.
func DefaultKeywords() KeywordList {
	return KeywordList{Terms: []string{
		// action
		"battle", "fight", "attack", "escape", "chase", "rescue",
		"betray", "defeat", "kill", "duel", "ambush",
		"战斗", "攻击", "逃跑", "追击", "救援", "背叛", "击败",
		// fantasy
		"magic", "spell", "sword", "dragon", "demon", "curse",
		"guild", "dungeon", "level", "skill", "summon",
		"魔法", "咒语", "剑", "龙", "魔王", "诅咒", "公会", "迷宫", "等级", "技能", "召唤",
		// narrative beats
		"secret", "promise", "memory", "death", "truth",
		"秘密", "约定", "记忆", "死亡", "真相",
	}}
}

// LoadKeywords reads a keyword list from a YAML file. An empty terms
// list falls back to the defaults.
func LoadKeywords(path string) (KeywordList, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return KeywordList{}, fmt.Errorf("read keywords: %w", err)
	}
	var kl KeywordList
	if err := yaml.Unmarshal(b, &kl); err != nil {
		return KeywordList{}, fmt.Errorf("parse keywords: %w", err)
	}
	if len(kl.Terms) == 0 {
		return DefaultKeywords(), nil
	}
	return kl, nil
}
