package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Course{},
		&types.CourseModule{},
		&types.TitleSuggestion{},
		&types.ModuleScript{},
		&types.Slide{},
		&types.QuizQuestion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return db, log
}

func createCourse(t *testing.T, db *gorm.DB, log *logger.Logger) (*types.Course, CourseRepo) {
	t.Helper()
	repo := NewCourseRepo(db, log)
	course, err := repo.Create(context.Background(), nil, &types.Course{
		ID:       uuid.New(),
		Title:    "Patientsäkerhet",
		Language: "sv",
		Tone:     "professional",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course, repo
}

func TestCourseRepo_UpdateFieldsIsPartial(t *testing.T) {
	db, log := testDB(t)
	course, repo := createCourse(t, db, log)

	err := repo.UpdateFields(context.Background(), nil, course.ID, map[string]any{"current_step": "outline"})
	if err != nil {
		t.Fatalf("update fields: %v", err)
	}

	got, err := repo.GetByID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.CurrentStep != "outline" {
		t.Fatalf("current_step = %q, want outline", got.CurrentStep)
	}
	if got.Title != "Patientsäkerhet" {
		t.Fatalf("untouched field changed: %q", got.Title)
	}
}

func TestCourseRepo_SoftDeleteHidesFromList(t *testing.T) {
	db, log := testDB(t)
	course, repo := createCourse(t, db, log)

	if err := repo.SoftDelete(context.Background(), nil, course.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	courses, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 0 {
		t.Fatalf("soft-deleted course still listed")
	}
}

func TestCourseModuleRepo_UpsertKeepsIDsOnRegeneration(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewCourseModuleRepo(db, log)

	first := []*types.CourseModule{
		{ID: uuid.New(), CourseID: course.ID, Number: 1, Title: "Intro"},
		{ID: uuid.New(), CourseID: course.ID, Number: 2, Title: "Fördjupning"},
	}
	if _, err := repo.UpsertAll(context.Background(), nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := []*types.CourseModule{
		{ID: uuid.New(), CourseID: course.ID, Number: 1, Title: "Ny intro"},
		{ID: uuid.New(), CourseID: course.ID, Number: 2, Title: "Ny fördjupning"},
	}
	if _, err := repo.UpsertAll(context.Background(), nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	modules, err := repo.GetByCourseID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("get modules: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(modules))
	}
	for i, m := range modules {
		if m.ID != first[i].ID {
			t.Fatalf("module %d row identity changed on upsert", m.Number)
		}
	}
	if modules[0].Title != "Ny intro" {
		t.Fatalf("module title not updated: %q", modules[0].Title)
	}
}

func TestCourseModuleRepo_DeleteAboveNumber(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewCourseModuleRepo(db, log)

	modules := []*types.CourseModule{
		{ID: uuid.New(), CourseID: course.ID, Number: 1, Title: "A"},
		{ID: uuid.New(), CourseID: course.ID, Number: 2, Title: "B"},
		{ID: uuid.New(), CourseID: course.ID, Number: 3, Title: "C"},
	}
	if _, err := repo.UpsertAll(context.Background(), nil, modules); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.DeleteAboveNumber(context.Background(), nil, course.ID, 2); err != nil {
		t.Fatalf("delete above: %v", err)
	}

	remaining, err := repo.GetByCourseID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("get modules: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("got %d modules, want 2", len(remaining))
	}
}

func TestCourseModuleRepo_TrimmedNumberIsReusableOnRegrowth(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewCourseModuleRepo(db, log)

	modules := []*types.CourseModule{
		{ID: uuid.New(), CourseID: course.ID, Number: 1, Title: "A"},
		{ID: uuid.New(), CourseID: course.ID, Number: 2, Title: "B"},
		{ID: uuid.New(), CourseID: course.ID, Number: 3, Title: "C"},
	}
	if _, err := repo.UpsertAll(context.Background(), nil, modules); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.DeleteAboveNumber(context.Background(), nil, course.ID, 2); err != nil {
		t.Fatalf("delete above: %v", err)
	}

	regrown := []*types.CourseModule{
		{ID: uuid.New(), CourseID: course.ID, Number: 1, Title: "A"},
		{ID: uuid.New(), CourseID: course.ID, Number: 2, Title: "B"},
		{ID: uuid.New(), CourseID: course.ID, Number: 3, Title: "C again"},
	}
	if _, err := repo.UpsertAll(context.Background(), nil, regrown); err != nil {
		t.Fatalf("upsert after regrowth: %v", err)
	}

	remaining, err := repo.GetByCourseID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("get modules: %v", err)
	}
	if len(remaining) != 3 {
		t.Fatalf("got %d modules after regrowth, want 3", len(remaining))
	}
	if remaining[2].Title != "C again" {
		t.Fatalf("module 3 title = %q, want %q", remaining[2].Title, "C again")
	}
}

func TestModuleScriptRepo_UpsertReplacesInPlace(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewModuleScriptRepo(db, log)
	moduleID := uuid.New()

	first, err := repo.Upsert(context.Background(), nil, &types.ModuleScript{
		CourseID:    course.ID,
		ModuleID:    moduleID,
		ModuleTitle: "Intro",
		TotalWords:  100,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	if _, err := repo.Upsert(context.Background(), nil, &types.ModuleScript{
		CourseID:    course.ID,
		ModuleID:    moduleID,
		ModuleTitle: "Intro v2",
		TotalWords:  120,
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	scripts, err := repo.GetByCourseID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("get scripts: %v", err)
	}
	if len(scripts) != 1 {
		t.Fatalf("got %d scripts, want 1", len(scripts))
	}
	if scripts[0].ID != first.ID {
		t.Fatalf("upsert created a new row instead of updating")
	}
	if scripts[0].TotalWords != 120 {
		t.Fatalf("total_words = %d, want 120", scripts[0].TotalWords)
	}
}

func TestSlideRepo_ReplaceForModule(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewSlideRepo(db, log)
	moduleID := uuid.New()

	first := []*types.Slide{
		{SlideNumber: 1, Title: "A", Content: "a", Layout: "title-content"},
		{SlideNumber: 2, Title: "B", Content: "b", Layout: "title-content"},
		{SlideNumber: 3, Title: "C", Content: "c", Layout: "title-content"},
	}
	if err := repo.ReplaceForModule(context.Background(), nil, course.ID, moduleID, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []*types.Slide{
		{SlideNumber: 1, Title: "Ny", Content: "x", Layout: "bullet-points"},
	}
	if err := repo.ReplaceForModule(context.Background(), nil, course.ID, moduleID, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	slides, err := repo.GetByModuleID(context.Background(), nil, moduleID)
	if err != nil {
		t.Fatalf("get slides: %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("replace left %d slides, want 1", len(slides))
	}
	if slides[0].Title != "Ny" {
		t.Fatalf("slide title = %q, want Ny", slides[0].Title)
	}
}

func TestQuizQuestionRepo_ReplaceAssignsPositions(t *testing.T) {
	db, log := testDB(t)
	course, _ := createCourse(t, db, log)
	repo := NewQuizQuestionRepo(db, log)
	moduleID := uuid.New()

	questions := []*types.QuizQuestion{
		{Question: "Fråga 1?", CorrectOptionID: "a"},
		{Question: "Fråga 2?", CorrectOptionID: "b"},
	}
	if err := repo.ReplaceForModule(context.Background(), nil, course.ID, moduleID, questions); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.GetByModuleID(context.Background(), nil, moduleID)
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	for i, q := range got {
		if q.Position != i+1 {
			t.Fatalf("question %d position = %d", i, q.Position)
		}
	}
}
