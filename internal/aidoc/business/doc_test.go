package business

import (
	"errors"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB создает тестовую БД SQLite в памяти с упрощёнными таблицами
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Создаем упрощённые таблицы вручную (без PostgreSQL-специфичных типов)
	err = db.Exec(`
		CREATE TABLE docs (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			title TEXT,
			content TEXT,
			parent_doc_id TEXT,
			seq_id INTEGER,
			draft INTEGER DEFAULT 0
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE doc_snapshots (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			doc_id TEXT,
			seq_id INTEGER,
			title TEXT,
			content TEXT
		)
	`).Error
	require.NoError(t, err)

	return db
}

func setupBL(t *testing.T, snapshotsLimit int) *Business {
	db := setupTestDB(t)
	return NewBL(db, &config.Config{SnapshotsLimit: snapshotsLimit})
}

func createTestDoc(t *testing.T, bl *Business, title string, content interface{}) *dao.Doc {
	doc, err := bl.CreateDoc(dto.DocCreateRequest{Title: title, Content: content})
	require.NoError(t, err)
	return doc
}

func TestCreateDocNormalizesContent(t *testing.T) {
	bl := setupBL(t, 0)

	doc := createTestDoc(t, bl, "Первый", "# Заголовок\n\nАбзац текста")

	require.NotNil(t, doc.Content.Document)
	assert.Equal(t, "doc", doc.Content.Document.Type)
	require.Len(t, doc.Content.Document.Content, 2)
	assert.Equal(t, "heading", doc.Content.Document.Content[0].Type)
	assert.NotEmpty(t, doc.Content.Document.Content[0].BlockID())
	assert.Equal(t, 1, doc.SeqId)

	second := createTestDoc(t, bl, "Второй", nil)
	assert.Equal(t, 2, second.SeqId)
}

func TestCreateDocTitleRequired(t *testing.T) {
	bl := setupBL(t, 0)

	_, err := bl.CreateDoc(dto.DocCreateRequest{Title: "   "})
	assert.ErrorIs(t, err, apierrors.ErrDocTitleRequired)
}

func TestCreateDocParentNotFound(t *testing.T) {
	bl := setupBL(t, 0)

	missing := dao.GenUUID().String()
	_, err := bl.CreateDoc(dto.DocCreateRequest{Title: "Документ", ParentDocID: &missing})
	assert.ErrorIs(t, err, apierrors.ErrDocParentNotFound)
}

func TestGetDocNotFound(t *testing.T) {
	bl := setupBL(t, 0)

	_, err := bl.GetDoc(dao.GenUUID())
	assert.ErrorIs(t, err, apierrors.ErrDocNotFound)
}

func TestEditBlocksSnapshotsBeforeWrite(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "старый текст")

	res, err := bl.EditBlocks(doc, []edit.Operation{
		{Action: edit.ActionReplace, Target: float64(0), Content: "новый текст"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.OperationsApplied)

	// Изменение применилось и сохранилось
	stored, err := bl.GetDoc(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "новый текст", stored.Content.Document.Content[0].PlainText())

	// Версия хранит состояние до изменения
	snapshots, err := bl.ListSnapshots(doc)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	snapshot, err := bl.GetSnapshot(doc, snapshots[0].SeqId)
	require.NoError(t, err)
	assert.Equal(t, "старый текст", snapshot.Content.Document.Content[0].PlainText())
}

func TestEditBlocksAllFailedNotPersisted(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "исходный текст")

	_, err := bl.EditBlocks(doc, []edit.Operation{
		{Action: edit.ActionRemove, BlockID: "несуществующий"},
		{Action: "unknown_action"},
	})
	require.Error(t, err)

	var defined apierrors.DefinedError
	require.True(t, errors.As(err, &defined))
	assert.Equal(t, apierrors.ErrEditAllOperationsFail.Code, defined.Code)

	// Документ не изменился, версия не снята
	stored, err := bl.GetDoc(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "исходный текст", stored.Content.Document.Content[0].PlainText())

	snapshots, err := bl.ListSnapshots(doc)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestReplaceContentComplexGuard(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", map[string]interface{}{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{"type": "columns"},
		},
	})

	err := bl.ReplaceContent(doc, "простой текст")
	require.Error(t, err)

	var defined apierrors.DefinedError
	require.True(t, errors.As(err, &defined))
	assert.Equal(t, apierrors.ErrDocComplexBlocks.Code, defined.Code)
	assert.Contains(t, defined.Err, "columns")
}

func TestReplaceContentSimpleDoc(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "было")

	require.NoError(t, bl.ReplaceContent(doc, "стало"))

	stored, err := bl.GetDoc(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "стало", stored.Content.Document.Content[0].PlainText())
}

func TestRestoreSnapshot(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "версия один")

	require.NoError(t, bl.ReplaceContent(doc, "версия два"))

	// Восстановление первой версии: текущее содержимое тоже снимается в версию
	require.NoError(t, bl.RestoreSnapshot(doc, 1))

	stored, err := bl.GetDoc(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "версия один", stored.Content.Document.Content[0].PlainText())

	snapshots, err := bl.ListSnapshots(doc)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, 2, snapshots[0].SeqId)
}

func TestRestoreSnapshotNotFound(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "текст")

	err := bl.RestoreSnapshot(doc, 42)
	assert.ErrorIs(t, err, apierrors.ErrDocSnapshotNotFound)
}

func TestSnapshotsLimitPruning(t *testing.T) {
	bl := setupBL(t, 2)
	doc := createTestDoc(t, bl, "Документ", "v0")

	require.NoError(t, bl.ReplaceContent(doc, "v1"))
	require.NoError(t, bl.ReplaceContent(doc, "v2"))
	require.NoError(t, bl.ReplaceContent(doc, "v3"))

	snapshots, err := bl.ListSnapshots(doc)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, 3, snapshots[0].SeqId)
	assert.Equal(t, 2, snapshots[1].SeqId)
}

func TestDeleteDocRemovesSnapshots(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "текст")
	require.NoError(t, bl.ReplaceContent(doc, "другой текст"))

	require.NoError(t, bl.DeleteDoc(doc))

	_, err := bl.GetDoc(doc.ID)
	assert.ErrorIs(t, err, apierrors.ErrDocNotFound)

	var count int64
	require.NoError(t, bl.DB().Model(&dao.DocSnapshot{}).Where("doc_id = ?", doc.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditAccordionErrors(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "обычный абзац")

	count := 1
	_, err := bl.EditAccordion(doc, dto.DocEditAccordionRequest{
		Target:     float64(0),
		Operations: []edit.AccordionOperation{{Action: edit.AccordionActionRemove, Count: count}},
	})
	assert.ErrorIs(t, err, apierrors.ErrEditTargetNotAccordion)
}

func TestGetStructure(t *testing.T) {
	bl := setupBL(t, 0)
	doc := createTestDoc(t, bl, "Документ", "# Обзор\n\nТекст раздела")

	st := bl.GetStructure(doc)
	assert.Equal(t, doc.GetId(), st.DocID)
	assert.Equal(t, "Документ", st.Title)
	require.Equal(t, 2, st.TotalBlocks)
	assert.Equal(t, "heading", st.Blocks[0].Type)
}
