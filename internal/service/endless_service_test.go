package service

import (
	"errors"
	"math/rand"
	"testing"

	"strokeclash/internal/database"
	"strokeclash/internal/repository"
)

func newTestEndlessService(db *database.DB) *EndlessService {
	return NewEndlessService(
		repository.NewUserRepository(db),
		repository.NewCharacterRepository(db),
		repository.NewExerciseRepository(db),
		repository.NewProgressRepository(db),
		func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	)
}

func TestGenerateBatch(t *testing.T) {
	db := newTestDB(t)
	for i, glyph := range []string{"一", "二", "三", "十", "人"} {
		seedTestCharacter(t, db, glyph, i+1, i+1)
	}
	svc := newTestEndlessService(db)

	batch, err := svc.GenerateBatch("siuming", 0)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if batch.Level != 1 {
		t.Errorf("new learner level = %d, want 1", batch.Level)
	}
	if batch.CompletedCount != 0 || batch.CanAdvance {
		t.Errorf("new learner stats = %d completed, canAdvance %v, want 0/false",
			batch.CompletedCount, batch.CanAdvance)
	}
	if len(batch.Items) != 5 {
		t.Errorf("batch size = %d, want all 5 available characters", len(batch.Items))
	}
	for _, item := range batch.Items {
		if item.ExerciseID == 0 {
			t.Errorf("character %s missing its exercise", item.Character.Traditional)
		}
	}
}

func TestGenerateBatchHonorsCount(t *testing.T) {
	db := newTestDB(t)
	for i, glyph := range []string{"一", "二", "三", "十", "人"} {
		seedTestCharacter(t, db, glyph, i+1, i+1)
	}
	svc := newTestEndlessService(db)

	batch, err := svc.GenerateBatch("siuming", 2)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(batch.Items) != 2 {
		t.Errorf("batch size = %d, want the requested 2", len(batch.Items))
	}
}

func TestGenerateBatchSkipsCharactersWithoutExercise(t *testing.T) {
	db := newTestDB(t)
	seedTestCharacter(t, db, "一", 1, 1)

	// A character with no single-character exercise can't be practiced
	orphanID, err := db.ExecReturningID(`
		INSERT INTO characters (traditional, simplified, jyutping, english, stroke_count, frequency_rank, difficulty)
		VALUES ('二', '', 'ji6', 'two', 2, 2, 1)
	`)
	if err != nil {
		t.Fatalf("failed to seed orphan character: %v", err)
	}
	svc := newTestEndlessService(db)

	batch, err := svc.GenerateBatch("siuming", 0)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(batch.Items) != 1 {
		t.Fatalf("batch size = %d, want 1 practicable character", len(batch.Items))
	}
	for _, item := range batch.Items {
		if item.Character.ID == orphanID || item.ExerciseID == 0 {
			t.Errorf("batch contains unpracticable item %+v", item)
		}
	}
}

func TestCompleteBatchRecordsProgress(t *testing.T) {
	db := newTestDB(t)
	var characterIDs []int64
	for i, glyph := range []string{"一", "二", "三"} {
		id, _ := seedTestCharacter(t, db, glyph, i+1, i+1)
		characterIDs = append(characterIDs, id)
	}
	svc := newTestEndlessService(db)

	if _, err := svc.GenerateBatch("siuming", 0); err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}

	results := []EndlessResult{
		{CharacterID: characterIDs[0], Accuracy: 95},
		{CharacterID: characterIDs[1], Accuracy: 90},
		{CharacterID: characterIDs[2], Accuracy: 40},
	}
	summary, err := svc.CompleteBatch("siuming", results)
	if err != nil {
		t.Fatalf("CompleteBatch() error = %v", err)
	}
	if summary.Processed != 3 {
		t.Errorf("processed = %d, want 3", summary.Processed)
	}
	// 95 and 90 clear the mastery threshold, 40 does not
	if summary.NewlyCompleted != 2 {
		t.Errorf("newly completed = %d, want 2", summary.NewlyCompleted)
	}

	// The two mastered characters drop out of the fresh portion and return
	// in the review tail
	batch, err := svc.GenerateBatch("siuming", 0)
	if err != nil {
		t.Fatalf("GenerateBatch() after completion error = %v", err)
	}
	seen := make(map[int64]int)
	for _, item := range batch.Items {
		seen[item.Character.ID]++
	}
	if seen[characterIDs[2]] == 0 {
		t.Error("unmastered character missing from next batch")
	}
}

func TestCompleteBatchAdvancesLevel(t *testing.T) {
	db := newTestDB(t)
	var levelOneIDs []int64
	for i, glyph := range []string{"一", "二", "三", "十", "人"} {
		id, _ := seedTestCharacter(t, db, glyph, i+1, i+1)
		levelOneIDs = append(levelOneIDs, id)
	}
	seedTestCharacter(t, db, "我", 7, 6) // difficulty 2
	svc := newTestEndlessService(db)

	if _, err := svc.GenerateBatch("siuming", 0); err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}

	results := make([]EndlessResult, 0, len(levelOneIDs))
	for _, id := range levelOneIDs {
		results = append(results, EndlessResult{CharacterID: id, Accuracy: 95})
	}
	summary, err := svc.CompleteBatch("siuming", results)
	if err != nil {
		t.Fatalf("CompleteBatch() error = %v", err)
	}

	// Mastering every level-1 character clears the level
	if !summary.Advanced {
		t.Error("expected the run to advance the level")
	}
	if summary.Level != 2 {
		t.Errorf("summary level = %d, want 2", summary.Level)
	}

	// The next batch must agree with the summary about where the learner is
	batch, err := svc.GenerateBatch("siuming", 0)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if batch.Level != summary.Level {
		t.Errorf("generate reports level %d, complete reported %d", batch.Level, summary.Level)
	}

	// A second run with no further mastery does not advance again
	summary, err = svc.CompleteBatch("siuming", []EndlessResult{
		{CharacterID: levelOneIDs[0], Accuracy: 95},
	})
	if err != nil {
		t.Fatalf("CompleteBatch() second run error = %v", err)
	}
	if summary.Advanced || summary.Level != 2 {
		t.Errorf("second run = advanced %v at level %d, want no advance at 2", summary.Advanced, summary.Level)
	}
}

func TestCompleteBatchUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestEndlessService(db)

	_, err := svc.CompleteBatch("nobody", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
