package unit

import "strconv"

// Content type keys.
const (
	KindArticle     = "article"
	KindVideo       = "video"
	KindInterview   = "interview"
	KindPromptSet   = "promptset"
	KindTemplate    = "template"
	KindExercise    = "exercise"
	KindMicroStudy  = "microstudy"
	KindMicroCourse = "microcourse"
)

const (
	ArticleMinLength     = 5000
	ArticleMaxLength     = 8000
	MicroContentMinLimit = 300
	PromptMaxLength      = 1000
	PromptCount          = 20
)

var (
	SuggestedFrequencies = []string{"daily", "weekly", "monthly", "quarterly"}
	TargetAudiences      = []string{"individual", "group", "mixed"}
	FileFormats          = []string{
		"PDF",
		"Word document",
		"Excel spreadsheet",
		"PowerPoint presentation",
		"Image",
		"Other (please contact the administrators)",
	}
	ExerciseCheckboxes = []string{
		"requires_facilitator",
		"requires_materials",
		"suitable_for_remote",
		"suitable_for_in_person",
		"time_limited",
		"permission",
	}
)

// DefaultCatalog returns a catalog seeded with every Twennie content type.
func DefaultCatalog() *Catalog {
	catalog := NewCatalog()
	for _, schema := range DefaultSchemas() {
		catalog.MustRegister(schema)
	}
	return catalog
}

// DefaultSchemas returns the built-in content type schemas.
func DefaultSchemas() []Schema {
	return []Schema{
		articleSchema(),
		videoSchema(),
		interviewSchema(),
		promptSetSchema(),
		templateSchema(),
		exerciseSchema(),
		microStudySchema(),
		microCourseSchema(),
	}
}

func articleSchema() Schema {
	content := RequiredField("article_content", FieldTypeMarkdown)
	content.Validations = append(content.Validations,
		ValidationRule{Kind: ValidationRuleMinLength, Value: ArticleMinLength},
		ValidationRule{Kind: ValidationRuleMaxLength, Value: ArticleMaxLength},
	)
	return newSchema(KindArticle, "Article", "Long-form written piece.", content)
}

func videoSchema() Schema {
	videoURL := RequiredField("video_url", FieldTypeURL)
	videoURL.Label = "Video URL"
	return newSchema(KindVideo, "Video", "Recorded video with a summary.", videoURL)
}

func interviewSchema() Schema {
	return newSchema(KindInterview, "Interview", "Conversation with a practitioner.",
		RequiredField("interviewee", FieldTypeString),
		RequiredField("interview_content", FieldTypeMarkdown),
	)
}

func promptSetSchema() Schema {
	fields := []Field{
		EnumField("suggested_frequency", SuggestedFrequencies),
		EnumField("target_audience", TargetAudiences),
	}
	fields = append(fields, NumberedFields("Prompt", PromptCount, PromptMaxLength)...)
	return newSchema(KindPromptSet, "Prompt set", "Twenty reflection prompts used on a schedule.", fields...)
}

func templateSchema() Schema {
	return newSchema(KindTemplate, "Template", "Downloadable working document.",
		EnumField("file_format", FileFormats),
		RequiredField("download_link", FieldTypeURL),
	)
}

func exerciseSchema() Schema {
	fields := []Field{
		RequiredField("exercise_instructions", FieldTypeMarkdown),
		EnumField("target_audience", TargetAudiences),
	}
	for _, name := range ExerciseCheckboxes {
		field := CheckboxField(name)
		if name == "permission" {
			field.Label = "Permission to publish"
			field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleConsent})
		}
		fields = append(fields, field)
	}
	return newSchema(KindExercise, "Exercise", "Hands-on activity for individuals or groups.", fields...)
}

func microStudySchema() Schema {
	return newSchema(KindMicroStudy, "Micro-study", "Short study unit.",
		minLengthField("study_content", MicroContentMinLimit),
	)
}

func microCourseSchema() Schema {
	return newSchema(KindMicroCourse, "Micro-course", "Short course unit.",
		minLengthField("course_content", MicroContentMinLimit),
	)
}

func minLengthField(name string, limit int) Field {
	field := RequiredField(name, FieldTypeMarkdown)
	field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMinLength, Value: limit})
	return field
}

func newSchema(kind, title, description string, specific ...Field) Schema {
	fields := CommonFields()
	fields = append(fields, specific...)
	fields = append(fields, BadgeField(), CharacteristicsField())
	return Schema{
		Kind:        kind,
		Title:       title,
		Description: description,
		Fields:      fields,
	}
}

// CommonFields are the required fields shared by every content type.
func CommonFields() []Field {
	return []Field{
		RequiredField("title", FieldTypeString),
		RequiredField("main_topic", FieldTypeString),
		RequiredField("short_summary", FieldTypeText),
		RequiredField("full_summary", FieldTypeMarkdown),
	}
}

// RequiredField builds a text field that must be non-blank.
func RequiredField(name string, fieldType FieldType) Field {
	return Field{
		Name:        name,
		Type:        fieldType,
		Required:    true,
		Validations: []ValidationRule{{Kind: ValidationRuleRequired}},
	}
}

// EnumField builds a field restricted to the allowed values. Absence counts as
// an invalid value, so no separate required rule is declared.
func EnumField(name string, allowed []string) Field {
	return Field{
		Name:     name,
		Type:     FieldTypeString,
		Required: true,
		Validations: []ValidationRule{{
			Kind:    ValidationRuleEnum,
			Allowed: append([]string(nil), allowed...),
		}},
	}
}

// NumberedFields builds prefix1..prefixN, each required and capped at
// maxLength characters.
func NumberedFields(prefix string, count, maxLength int) []Field {
	fields := make([]Field, 0, count)
	for idx := 1; idx <= count; idx++ {
		field := RequiredField(prefix+strconv.Itoa(idx), FieldTypeText)
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMaxLength, Value: maxLength})
		fields = append(fields, field)
	}
	return fields
}

// CheckboxField builds a boolean field coerced from the browser "on" marker.
func CheckboxField(name string) Field {
	return Field{
		Name:        name,
		Type:        FieldTypeBoolean,
		Validations: []ValidationRule{{Kind: ValidationRuleCheckbox}},
	}
}

// BadgeField is the optional badge sub-object whose image and name must be
// provided together.
func BadgeField() Field {
	return Field{
		Name: "badge",
		Type: FieldTypeObject,
		Nested: []Field{
			{Name: "image", Type: FieldTypeURL, Label: "Badge image"},
			{Name: "name", Type: FieldTypeString, Label: "Badge name"},
		},
		Validations: []ValidationRule{{
			Kind:    ValidationRulePairing,
			Members: []string{"image", "name"},
		}},
	}
}

// CharacteristicsField is the optional multi-select list of tags.
func CharacteristicsField() Field {
	return Field{
		Name:        "characteristics",
		Type:        FieldTypeArray,
		Validations: []ValidationRule{{Kind: ValidationRuleArray}},
	}
}
