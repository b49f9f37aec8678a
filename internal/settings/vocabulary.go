package settings

import (
	"strings"

	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

// Vocabulary names a user-managed list of terms.
type Vocabulary string

const (
	VocabFamilyMembers Vocabulary = "members"
	VocabCategories    Vocabulary = "categories"
	VocabInterests     Vocabulary = "interests"
)

// Vocabularies lists every vocabulary.
var Vocabularies = []Vocabulary{VocabFamilyMembers, VocabCategories, VocabInterests}

// ParseVocabulary accepts the vocabulary name or its storage key.
func ParseVocabulary(s string) (Vocabulary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "members", "member", "family", strings.ToLower(kv.KeyFamilyMembers):
		return VocabFamilyMembers, nil
	case "categories", "category":
		return VocabCategories, nil
	case "interests", "interest":
		return VocabInterests, nil
	}
	return "", ErrUnknownVocab
}

func (v Vocabulary) key() string {
	switch v {
	case VocabFamilyMembers:
		return kv.KeyFamilyMembers
	case VocabCategories:
		return kv.KeyCategories
	case VocabInterests:
		return kv.KeyInterests
	}
	return ""
}

// defaults seeds a vocabulary that was never saved.
func (v Vocabulary) defaults() []string {
	switch v {
	case VocabFamilyMembers:
		return []string{"Me"}
	case VocabCategories:
		return []string{"Travel", "Adventure", "Food", "Culture", "Nature", "Personal Growth"}
	case VocabInterests:
		return []string{"Hiking", "Beaches", "History", "Art", "Food", "Nightlife", "Wildlife", "Architecture"}
	}
	return nil
}
