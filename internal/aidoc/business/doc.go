package business

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edit"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/structure"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/stackerror"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/aisa-it/aidoc/aidoc.go/pkg/limiter"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CreateDoc создает документ. Содержимое принимается в любом входном формате
// и нормализуется в Tree JSON.
func (b *Business) CreateDoc(req dto.DocCreateRequest) (*dao.Doc, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apierrors.ErrDocTitleRequired
	}
	if !limiter.Limiter.CanCreateDoc() {
		return nil, apierrors.ErrDocLimitExceed
	}

	doc := dao.Doc{
		ID:      dao.GenUUID(),
		Title:   req.Title,
		Content: types.NewDocJSON(b.norm.Normalize(req.Content)),
		Draft:   req.Draft,
	}

	if req.ParentDocID != nil {
		parentID, err := uuid.FromString(*req.ParentDocID)
		if err != nil {
			return nil, apierrors.ErrDocParentNotFound
		}
		var exists bool
		if err := b.db.Model(&dao.Doc{}).Select("EXISTS(?)",
			b.db.Model(&dao.Doc{}).Select("1").Where("id = ?", parentID),
		).Find(&exists).Error; err != nil {
			return nil, err
		}
		if !exists {
			return nil, apierrors.ErrDocParentNotFound
		}
		doc.ParentDocID = uuid.NullUUID{UUID: parentID, Valid: true}
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		if err := tx.Model(&dao.Doc{}).Select("COALESCE(MAX(seq_id), 0)").Find(&maxSeq).Error; err != nil {
			return err
		}
		doc.SeqId = maxSeq + 1
		return tx.Create(&doc).Error
	})
	if err != nil {
		return nil, stackerror.TrackErrorStack(err).AddContext("doc", doc.GetId())
	}
	return &doc, nil
}

func (b *Business) GetDoc(id uuid.UUID) (*dao.Doc, error) {
	var doc dao.Doc
	if err := b.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrDocNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (b *Business) ListDocs() ([]dao.Doc, error) {
	var docs []dao.Doc
	if err := b.db.Order("seq_id").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateDoc изменяет метаданные документа, не затрагивая содержимое.
func (b *Business) UpdateDoc(doc *dao.Doc, req dto.DocUpdateRequest) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return apierrors.ErrDocTitleRequired
		}
		doc.Title = *req.Title
	}
	if req.Draft != nil {
		doc.Draft = *req.Draft
	}
	return b.db.Select("title", "draft", "updated_at").Updates(doc).Error
}

func (b *Business) DeleteDoc(doc *dao.Doc) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doc_id = ?", doc.ID).Delete(&dao.DocSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Delete(doc).Error
	})
}

// GetStructure возвращает оглавление документа для адресации блоков.
func (b *Business) GetStructure(doc *dao.Doc) dto.DocStructure {
	return dto.DocStructure{
		Structure: structure.Extract(doc.Content.Document),
		DocID:     doc.GetId(),
		Title:     doc.Title,
	}
}

// ReplaceContent полностью заменяет содержимое документа. Отклоняется,
// если текущее содержимое имеет сложные блоки на верхнем уровне: их нельзя
// восстановить из плоского входного формата. Для таких документов
// используется частичное редактирование.
func (b *Business) ReplaceContent(doc *dao.Doc, content interface{}) error {
	if complexTypes := structure.ComplexBlockTypes(doc.Content.Document); len(complexTypes) > 0 {
		return apierrors.ErrDocComplexBlocks.WithFormattedMessage(strings.Join(complexTypes, ", "))
	}

	newContent := b.norm.Normalize(content)
	return b.persistContent(doc, newContent)
}

// EditBlocks применяет пакет операций частичного редактирования.
// Если не применилась ни одна операция, документ не сохраняется,
// а накопленные предупреждения возвращаются в ошибке.
func (b *Business) EditBlocks(doc *dao.Doc, operations []edit.Operation) (*dto.DocEditResult, error) {
	if len(operations) == 0 {
		return nil, apierrors.ErrEditNoOperations
	}

	result := b.engine.Apply(doc.Content.Document, operations)
	if result.OperationsApplied == 0 {
		return nil, apierrors.ErrEditAllOperationsFail.WithFormattedMessage(strings.Join(result.Warnings, "; "))
	}

	if err := b.persistContent(doc, result.Doc); err != nil {
		return nil, err
	}

	return &dto.DocEditResult{
		Doc:               b.toDTO(doc),
		OperationsApplied: result.OperationsApplied,
		Warnings:          result.Warnings,
	}, nil
}

// EditAccordion применяет операции к элементам одного блока аккордеона.
func (b *Business) EditAccordion(doc *dao.Doc, req dto.DocEditAccordionRequest) (*dto.DocEditResult, error) {
	if len(req.Operations) == 0 {
		return nil, apierrors.ErrEditNoOperations
	}

	result, err := b.engine.EditAccordion(doc.Content.Document, req.Target, req.BlockID, req.Operations)
	if err != nil {
		switch {
		case errors.Is(err, edit.ErrAccordionNotFound):
			return nil, apierrors.ErrEditAccordionNotFound
		case errors.Is(err, edit.ErrNotAccordion):
			return nil, apierrors.ErrEditTargetNotAccordion
		}
		return nil, err
	}
	if result.OperationsApplied == 0 {
		return nil, apierrors.ErrEditAllOperationsFail.WithFormattedMessage(strings.Join(result.Warnings, "; "))
	}

	if err := b.persistContent(doc, result.Doc); err != nil {
		return nil, err
	}

	return &dto.DocEditResult{
		Doc:               b.toDTO(doc),
		OperationsApplied: result.OperationsApplied,
		Warnings:          result.Warnings,
	}, nil
}

// persistContent снимает версию текущего содержимого и сохраняет новое
// в одной транзакции.
func (b *Business) persistContent(doc *dao.Doc, newContent *tiptap.Document) error {
	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := b.snapshot(tx, doc); err != nil {
			return err
		}
		doc.Content = types.NewDocJSON(newContent)
		return tx.Select("content", "updated_at").Updates(doc).Error
	})
	if err != nil {
		return stackerror.TrackErrorStack(err).AddContext("doc", doc.GetId())
	}
	return nil
}

func (b *Business) snapshot(tx *gorm.DB, doc *dao.Doc) error {
	if !limiter.Limiter.CanCreateSnapshot(doc.ID) {
		slog.Warn("Лимит версий документа исчерпан, версия не снята", "doc", doc.GetId())
		return nil
	}

	var maxSeq int
	if err := tx.Model(&dao.DocSnapshot{}).
		Where("doc_id = ?", doc.ID).
		Select("COALESCE(MAX(seq_id), 0)").
		Find(&maxSeq).Error; err != nil {
		return err
	}

	snapshot := dao.DocSnapshot{
		ID:      dao.GenUUID(),
		DocID:   doc.ID,
		SeqId:   maxSeq + 1,
		Title:   doc.Title,
		Content: doc.Content,
	}
	if err := tx.Create(&snapshot).Error; err != nil {
		return err
	}

	if b.cfg != nil && b.cfg.SnapshotsLimit > 0 {
		return tx.Where("doc_id = ? AND seq_id <= ?", doc.ID, snapshot.SeqId-b.cfg.SnapshotsLimit).
			Delete(&dao.DocSnapshot{}).Error
	}
	return nil
}

func (b *Business) ListSnapshots(doc *dao.Doc) ([]dto.DocSnapshotLight, error) {
	var snapshots []dao.DocSnapshot
	if err := b.db.Where("doc_id = ?", doc.ID).
		Order("seq_id desc").
		Omit("content").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	res := make([]dto.DocSnapshotLight, len(snapshots))
	for i, s := range snapshots {
		res[i] = dto.DocSnapshotLight{
			Id:        s.ID.String(),
			SeqId:     s.SeqId,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
		}
	}
	return res, nil
}

func (b *Business) GetSnapshot(doc *dao.Doc, seqId int) (*dao.DocSnapshot, error) {
	var snapshot dao.DocSnapshot
	if err := b.db.Where("doc_id = ? AND seq_id = ?", doc.ID, seqId).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrDocSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// RestoreSnapshot возвращает документ к версии. Текущее содержимое
// перед этим тоже снимается в версию.
func (b *Business) RestoreSnapshot(doc *dao.Doc, seqId int) error {
	snapshot, err := b.GetSnapshot(doc, seqId)
	if err != nil {
		return err
	}
	return b.persistContent(doc, snapshot.Content.Document)
}

func (b *Business) toDTO(doc *dao.Doc) dto.Doc {
	res := dto.Doc{
		DocLight: dto.DocLight{
			Id:    doc.GetId(),
			Title: doc.Title,
			SeqId: doc.SeqId,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Content:   doc.Content,
	}
	if doc.Draft {
		res.Draft = &doc.Draft
	}
	if doc.ParentDocID.Valid {
		parent := doc.ParentDocID.UUID.String()
		res.ParentDoc = &parent
	}
	return res
}

// ToDTO конвертирует модель документа в транспортное представление.
func (b *Business) ToDTO(doc *dao.Doc) dto.Doc {
	return b.toDTO(doc)
}

// SnapshotToDTO конвертирует версию документа в транспортное представление.
func (b *Business) SnapshotToDTO(snapshot *dao.DocSnapshot) dto.DocSnapshot {
	return dto.DocSnapshot{
		DocSnapshotLight: dto.DocSnapshotLight{
			Id:        snapshot.ID.String(),
			SeqId:     snapshot.SeqId,
			Title:     snapshot.Title,
			CreatedAt: snapshot.CreatedAt,
		},
		Content: snapshot.Content,
	}
}
