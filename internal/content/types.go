package content

// frontMatter is the YAML header of a markdown post.
type frontMatter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	URL         string   `yaml:"url"`
	Draft       bool     `yaml:"draft"`
}

// faqFile is the layout of a *.faq.yaml file.
type faqFile struct {
	Page  string    `yaml:"page"`
	Items []faqItem `yaml:"items"`
}

type faqItem struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Tags     []string `yaml:"tags"`
}
