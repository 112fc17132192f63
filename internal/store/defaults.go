package store

import "github.com/example/ydsbot/pkg/models"

// DefaultWords is the vocabulary used when neither the document nor its backup can be read
func DefaultWords() []models.Word {
	return []models.Word{
		{English: "abundance", Turkish: "bolluk"},
		{English: "accurate", Turkish: "doğru, kesin"},
		{English: "decline", Turkish: "düşüş"},
		{English: "enhance", Turkish: "geliştirmek"},
		{English: "reluctant", Turkish: "isteksiz"},
	}
}

// DefaultParagraphs is the fallback reading set
func DefaultParagraphs() []models.Paragraph {
	return []models.Paragraph{
		{
			ID:    "default-1",
			Title: "Urban Gardens",
			Text: "Urban gardens have become increasingly popular as city dwellers seek fresh produce " +
				"and green space. Beyond food, these gardens strengthen community ties.",
			TurkishTranslation: "Kent bahçeleri, şehir sakinleri taze ürün ve yeşil alan aradıkça giderek " +
				"popüler hale geldi. Yiyeceğin ötesinde bu bahçeler topluluk bağlarını güçlendirir.",
			Questions: []models.ParagraphQuestion{
				{
					Type:     "main_idea",
					Question: "What is the main idea of the paragraph?",
					Options: []string{
						"Urban gardens offer food and strengthen communities.",
						"Cities are running out of space.",
						"Fresh produce is expensive.",
						"Gardening is difficult in cities.",
					},
					Answer: "Urban gardens offer food and strengthen communities.",
				},
				{
					Type:     "en_to_tr",
					Question: "city dwellers",
					Options:  []string{"şehir sakinleri", "köylüler", "turistler", "bahçıvanlar"},
					Answer:   "şehir sakinleri",
				},
			},
			Difficulty:    "easy",
			UsedQuestions: []string{},
		},
	}
}

// DefaultSynonyms is the fallback synonym bank
func DefaultSynonyms() []models.SynonymSet {
	return []models.SynonymSet{
		{
			ID:             "default-syn-1",
			Type:           "synonym",
			Question:       "Select every synonym of \"abundant\".",
			Options:        []string{"plentiful", "ample", "scarce", "rare"},
			CorrectAnswers: []string{"plentiful", "ample"},
			Solution:       "abundant = plentiful, ample",
		},
	}
}

// DefaultWordList is the fallback word list
func DefaultWordList() []string {
	return []string{}
}
