package generation

import (
	"fmt"
	"strings"

	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// System prompts mirror the tone of the rest of the product: Swedish-first
// healthcare education, with English fallback for non-sv courses. Every
// prompt pins the exact JSON shape the normalizer expects.

func titleSystemPrompt(language string) string {
	if language == "sv" {
		return "Du är en expert på att skapa engagerande kurstitlar för vårdutbildning. " +
			"Generera exakt 5 alternativa kurstitlar baserade på användarens input. " +
			"Varje titel ska vara professionell, tydlig och attraktiv för vårdpersonal. " +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			"{\n" +
			"  \"suggestions\": [\n" +
			"    {\"id\": \"1\", \"title\": \"Titel här\", \"explanation\": \"Kort förklaring varför denna titel fungerar bra\"},\n" +
			"    {\"id\": \"2\", \"title\": \"Titel här\", \"explanation\": \"Kort förklaring\"}\n" +
			"  ]\n" +
			"}"
	}
	return "You are an expert at creating engaging course titles for healthcare education. " +
		"Generate exactly 5 alternative course titles based on the user's input. " +
		"Each title should be professional, clear, and appealing to healthcare professionals. " +
		"Respond ONLY with valid JSON in this format:\n" +
		"{\n" +
		"  \"suggestions\": [\n" +
		"    {\"id\": \"1\", \"title\": \"Title here\", \"explanation\": \"Brief explanation of why this title works well\"},\n" +
		"    {\"id\": \"2\", \"title\": \"Title here\", \"explanation\": \"Brief explanation\"}\n" +
		"  ]\n" +
		"}"
}

func titleUserPrompt(in workflow.TitlesInput) string {
	prompt := fmt.Sprintf("Original course title/topic: %q", in.Topic)
	if in.AdditionalContext != "" {
		prompt += "\n\nAdditional context: " + in.AdditionalContext
	}
	return prompt
}

func outlineSystemPrompt(language string, numModules int) string {
	if language == "sv" {
		return "Du är en expert på att strukturera vårdutbildningar. " +
			fmt.Sprintf("Skapa en kursöversikt med exakt %d moduler. ", numModules) +
			"Varje modul ska ha:\n" +
			"- En beskrivande titel\n" +
			"- En detaljerad beskrivning\n" +
			"- Uppskattat antal minuter\n" +
			"- 3-5 nyckelämnen som ska täckas\n" +
			"- 2-4 lärandemål\n\n" +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			"{\n" +
			"  \"modules\": [\n" +
			"    {\n" +
			"      \"number\": 1,\n" +
			"      \"title\": \"Modul titel\",\n" +
			"      \"description\": \"Detaljerad beskrivning av modulen\",\n" +
			"      \"estimated_duration\": 15,\n" +
			"      \"key_topics\": [\"Ämne 1\", \"Ämne 2\", \"Ämne 3\"],\n" +
			"      \"learning_objectives\": [\"Mål 1\", \"Mål 2\"]\n" +
			"    }\n" +
			"  ],\n" +
			"  \"total_duration\": 75\n" +
			"}"
	}
	return "You are an expert at structuring healthcare education. " +
		fmt.Sprintf("Create a course outline with exactly %d modules. ", numModules) +
		"Each module should have:\n" +
		"- A descriptive title\n" +
		"- A detailed description\n" +
		"- Estimated duration in minutes\n" +
		"- 3-5 key topics to be covered\n" +
		"- 2-4 learning objectives\n\n" +
		"Respond ONLY with valid JSON in this format:\n" +
		"{\n" +
		"  \"modules\": [\n" +
		"    {\n" +
		"      \"number\": 1,\n" +
		"      \"title\": \"Module title\",\n" +
		"      \"description\": \"Detailed description of the module\",\n" +
		"      \"estimated_duration\": 15,\n" +
		"      \"key_topics\": [\"Topic 1\", \"Topic 2\", \"Topic 3\"],\n" +
		"      \"learning_objectives\": [\"Objective 1\", \"Objective 2\"]\n" +
		"    }\n" +
		"  ],\n" +
		"  \"total_duration\": 75\n" +
		"}"
}

func outlineUserPrompt(in workflow.OutlineInput) string {
	prompt := fmt.Sprintf("Course title: %q", in.Title)
	if in.AdditionalContext != "" {
		prompt += "\n\nAdditional context: " + in.AdditionalContext
	}
	return prompt
}

func scriptSystemPrompt(language, tone string, targetDuration int) string {
	if targetDuration <= 0 {
		targetDuration = 10
	}
	if language == "sv" {
		return "Du är en expert på att skriva pedagogiska manus för vårdutbildningar. " +
			fmt.Sprintf("Skapa ett detaljerat manus för en modul som ska ta cirka %d minuter. ", targetDuration) +
			"Manuset ska vara:\n" +
			"- Professionellt och engagerande\n" +
			fmt.Sprintf("- I %s ton\n", tone) +
			"- Strukturerat i logiska sektioner (3-5 sektioner)\n" +
			"- Med tydliga övergångar mellan sektioner\n" +
			"- Inkludera slide markers (naturliga brytpunkter för slides)\n\n" +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			"{\n" +
			"  \"module_title\": \"Modulens titel\",\n" +
			"  \"sections\": [\n" +
			"    {\n" +
			"      \"id\": \"section-1\",\n" +
			"      \"title\": \"Sektion titel\",\n" +
			"      \"content\": \"Fullständigt manus för denna sektion...\",\n" +
			"      \"slide_markers\": [\"Key Point 1\", \"Key Point 2\"]\n" +
			"    }\n" +
			"  ],\n" +
			"  \"total_words\": 1500,\n" +
			"  \"estimated_duration\": 10,\n" +
			"  \"citations\": [\"Källa 1\", \"Källa 2\"]\n" +
			"}"
	}
	return "You are an expert at writing educational scripts for healthcare education. " +
		fmt.Sprintf("Create a detailed script for a module that should take approximately %d minutes. ", targetDuration) +
		"The script should be:\n" +
		"- Professional and engaging\n" +
		fmt.Sprintf("- In %s tone\n", tone) +
		"- Structured in logical sections (3-5 sections)\n" +
		"- With clear transitions between sections\n" +
		"- Include slide markers (natural breakpoints for slides)\n\n" +
		"Respond ONLY with valid JSON in this format:\n" +
		"{\n" +
		"  \"module_title\": \"Module title\",\n" +
		"  \"sections\": [\n" +
		"    {\n" +
		"      \"id\": \"section-1\",\n" +
		"      \"title\": \"Section title\",\n" +
		"      \"content\": \"Complete script for this section...\",\n" +
		"      \"slide_markers\": [\"Key Point 1\", \"Key Point 2\"]\n" +
		"    }\n" +
		"  ],\n" +
		"  \"total_words\": 1500,\n" +
		"  \"estimated_duration\": 10,\n" +
		"  \"citations\": [\"Source 1\", \"Source 2\"]\n" +
		"}"
}

func scriptUserPrompt(in workflow.ScriptInput) string {
	prompt := fmt.Sprintf("Module title: %q\nModule description: %s\nCourse: %q",
		in.Module.Title, in.Module.Description, in.CourseTitle)
	if len(in.Module.SubTopics) > 0 {
		prompt += "\nKey topics: " + strings.Join(in.Module.SubTopics, ", ")
	}
	if in.AdditionalContext != "" {
		prompt += "\n\nAdditional context: " + in.AdditionalContext
	}
	return prompt
}

const layoutGuidance = `Layout types to use:
- 'title': Opening/closing slides, major section breaks (1-2 slides)
- 'title-content': Key statements with supporting detail (30% of slides)
- 'bullet-points': Lists of related items, process steps (25% of slides)
- 'two-column': Comparisons, before/after, pros/cons (15% of slides)
- 'image-focus': Emotional moments, visual explanations (15% of slides)
- 'stats': Statistics, trends, metrics (10% of slides)
- 'quote': Expert testimony, key takeaways (5% of slides)

IMPORTANT: Vary the layouts throughout - avoid using same layout consecutively.`

func slidesSystemPrompt(language string, numSlides int, verbosityText, toneText string) string {
	format := "{\n" +
		"  \"presentation_title\": \"Presentation Title\",\n" +
		"  \"slides\": [\n" +
		"    {\n" +
		"      \"slide_number\": 1,\n" +
		"      \"title\": \"Slide Title\",\n" +
		"      \"subtitle\": \"Optional subtitle\",\n" +
		"      \"content\": \"Slide content\",\n" +
		"      \"bullet_points\": [\"Point 1\", \"Point 2\"],\n" +
		"      \"key_takeaway\": \"One-line takeaway\",\n" +
		"      \"speaker_notes\": \"Detailed speaker notes\",\n" +
		"      \"layout\": \"title-content\",\n" +
		"      \"suggested_image_query\": \"Search keywords for image\"\n" +
		"    }\n" +
		"  ]\n" +
		"}"
	if language == "sv" {
		return "Du är en världsklass presentationsdesigner och berättarexpert. " +
			fmt.Sprintf("Skapa exakt %d slides för en presentation.\n\n", numSlides) +
			"VERBOSITY: " + verbosityText + "\n\n" +
			"TON: " + toneText + "\n\n" +
			layoutGuidance + "\n" +
			"Svara ENDAST med giltig JSON i detta format:\n" + format
	}
	return "You are a world-class presentation designer and storytelling expert. " +
		fmt.Sprintf("Create exactly %d slides for a presentation.\n\n", numSlides) +
		"VERBOSITY: " + verbosityText + "\n\n" +
		"TONE: " + toneText + "\n\n" +
		layoutGuidance + "\n" +
		"Respond ONLY with valid JSON in this format:\n" + format
}

const slideScriptLimit = 4000

func slidesUserPrompt(in workflow.SlidesInput) string {
	script := in.Script.Text()
	if len(script) > slideScriptLimit {
		script = script[:slideScriptLimit]
	}
	return fmt.Sprintf("Module: %q\nCourse: %q\n\nScript content:\n%s",
		in.Module.Title, in.CourseTitle, script)
}

func exercisesSystemPrompt(language string) string {
	if language == "sv" {
		return "Du är en expert på att utforma praktiska övningar för vårdutbildningar. " +
			"Skapa 2-4 övningar baserade på modulens manus. " +
			"Varje övning ska vara konkret och genomförbar för vårdpersonal. " +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			"{\n" +
			"  \"exercises\": [\n" +
			"    {\n" +
			"      \"title\": \"Övningens titel\",\n" +
			"      \"instructions\": \"Steg-för-steg-instruktioner\",\n" +
			"      \"exercise_type\": \"reflection\"\n" +
			"    }\n" +
			"  ]\n" +
			"}\n" +
			"Giltiga exercise_type-värden: reflection, case-study, practical, discussion."
	}
	return "You are an expert at designing practical exercises for healthcare education. " +
		"Create 2-4 exercises based on the module script. " +
		"Each exercise should be concrete and actionable for healthcare professionals. " +
		"Respond ONLY with valid JSON in this format:\n" +
		"{\n" +
		"  \"exercises\": [\n" +
		"    {\n" +
		"      \"title\": \"Exercise title\",\n" +
		"      \"instructions\": \"Step-by-step instructions\",\n" +
		"      \"exercise_type\": \"reflection\"\n" +
		"    }\n" +
		"  ]\n" +
		"}\n" +
		"Valid exercise_type values: reflection, case-study, practical, discussion."
}

func quizSystemPrompt(language string) string {
	if language == "sv" {
		return "Du är en expert på kunskapskontroller för vårdutbildningar. " +
			"Skapa 3-5 flervalsfrågor baserade på modulens manus. " +
			"Varje fråga ska ha exakt 4 svarsalternativ varav ett är korrekt. " +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			"{\n" +
			"  \"questions\": [\n" +
			"    {\n" +
			"      \"id\": \"q1\",\n" +
			"      \"question\": \"Frågan här\",\n" +
			"      \"options\": [\n" +
			"        {\"id\": \"a\", \"text\": \"Alternativ A\"},\n" +
			"        {\"id\": \"b\", \"text\": \"Alternativ B\"},\n" +
			"        {\"id\": \"c\", \"text\": \"Alternativ C\"},\n" +
			"        {\"id\": \"d\", \"text\": \"Alternativ D\"}\n" +
			"      ],\n" +
			"      \"correct_option_id\": \"a\",\n" +
			"      \"explanation\": \"Varför detta är rätt svar\",\n" +
			"      \"difficulty\": \"medium\"\n" +
			"    }\n" +
			"  ]\n" +
			"}"
	}
	return "You are an expert at knowledge checks for healthcare education. " +
		"Create 3-5 multiple-choice questions based on the module script. " +
		"Each question must have exactly 4 options with one correct answer. " +
		"Respond ONLY with valid JSON in this format:\n" +
		"{\n" +
		"  \"questions\": [\n" +
		"    {\n" +
		"      \"id\": \"q1\",\n" +
		"      \"question\": \"The question here\",\n" +
		"      \"options\": [\n" +
		"        {\"id\": \"a\", \"text\": \"Option A\"},\n" +
		"        {\"id\": \"b\", \"text\": \"Option B\"},\n" +
		"        {\"id\": \"c\", \"text\": \"Option C\"},\n" +
		"        {\"id\": \"d\", \"text\": \"Option D\"}\n" +
		"      ],\n" +
		"      \"correct_option_id\": \"a\",\n" +
		"      \"explanation\": \"Why this is the correct answer\",\n" +
		"      \"difficulty\": \"medium\"\n" +
		"    }\n" +
		"  ]\n" +
		"}"
}

func moduleScriptUserPrompt(courseTitle string, module workflow.OutlineModule, script *workflow.ModuleScript) string {
	text := script.Text()
	if len(text) > slideScriptLimit {
		text = text[:slideScriptLimit]
	}
	return fmt.Sprintf("Module: %q\nCourse: %q\n\nScript content:\n%s",
		module.Title, courseTitle, text)
}
