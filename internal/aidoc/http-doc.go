package aidoc

import (
	"net/http"
	"strconv"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
)

type DocContext struct {
	echo.Context
	Doc dao.Doc
}

// DocMiddleware загружает документ по :docId и кладёт его в контекст запроса.
func (s *Services) DocMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		docId, err := uuid.FromString(c.Param("docId"))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrDocNotFound)
		}

		doc, err := s.bl.GetDoc(docId)
		if err != nil {
			return EError(c, err)
		}

		return next(DocContext{c, *doc})
	}
}

func (s *Services) AddDocServices(g *echo.Group) {
	g.GET("/doc/", s.getDocList)
	g.POST("/doc/", s.createDoc)

	docGroup := g.Group("/doc/:docId", s.DocMiddleware)
	docGroup.GET("/", s.getDoc)
	docGroup.PATCH("/", s.updateDoc)
	docGroup.DELETE("/", s.deleteDoc)

	docGroup.GET("/structure/", s.getDocStructure)
	docGroup.POST("/content/", s.replaceDocContent)
	docGroup.POST("/blocks/", s.editDocBlocks)
	docGroup.POST("/accordion/", s.editDocAccordion)

	docGroup.GET("/history/", s.getDocHistoryList)
	docGroup.GET("/history/:seqId/", s.getDocHistory)
	docGroup.POST("/history/:seqId/", s.restoreDocFromHistory)

	docGroup.GET("/export/", s.exportDoc)
	docGroup.POST("/import/html/", s.importDocHTML)
}

// getDocList godoc
// @id getDocList
// @Summary doc: получение списка документов
// @Description Возвращает список документов без содержимого
// @Tags Docs
// @Produce json
// @Success 200 {array} dto.DocLight "Список документов"
// @Failure 500 {object} apierrors.DefinedError "Внутренняя ошибка сервера"
// @Router /api/doc/ [get]
func (s *Services) getDocList(c echo.Context) error {
	docs, err := s.bl.ListDocs()
	if err != nil {
		return EError(c, err)
	}

	res := make([]dto.DocLight, len(docs))
	for i, doc := range docs {
		res[i] = s.bl.ToDTO(&doc).DocLight
	}
	return c.JSON(http.StatusOK, res)
}

// createDoc godoc
// @id createDoc
// @Summary doc: создание документа
// @Description Создает документ. Содержимое принимается в любом поддерживаемом формате и нормализуется
// @Tags Docs
// @Accept json
// @Produce json
// @Param data body dto.DocCreateRequest true "Данные документа"
// @Success 201 {object} dto.Doc "Созданный документ"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 500 {object} apierrors.DefinedError "Внутренняя ошибка сервера"
// @Router /api/doc/ [post]
func (s *Services) createDoc(c echo.Context) error {
	var req dto.DocCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return EError(c, err)
	}

	doc, err := s.bl.CreateDoc(req)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, s.bl.ToDTO(doc))
}

// getDoc godoc
// @id getDoc
// @Summary doc: получение документа
// @Description Возвращает документ с содержимым в древовидном формате
// @Tags Docs
// @Produce json
// @Param docId path string true "ID документа"
// @Success 200 {object} dto.Doc "Документ"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/ [get]
func (s *Services) getDoc(c echo.Context) error {
	doc := c.(DocContext).Doc
	return c.JSON(http.StatusOK, s.bl.ToDTO(&doc))
}

// updateDoc godoc
// @id updateDoc
// @Summary doc: обновление метаданных документа
// @Description Обновляет заголовок и флаг черновика. Содержимое не затрагивается
// @Tags Docs
// @Accept json
// @Produce json
// @Param docId path string true "ID документа"
// @Param data body dto.DocUpdateRequest true "Изменяемые поля"
// @Success 200 {object} dto.Doc "Обновленный документ"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/ [patch]
func (s *Services) updateDoc(c echo.Context) error {
	doc := c.(DocContext).Doc

	var req dto.DocUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return EError(c, err)
	}

	if err := s.bl.UpdateDoc(&doc, req); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.bl.ToDTO(&doc))
}

// deleteDoc godoc
// @id deleteDoc
// @Summary doc: удаление документа
// @Description Удаляет документ вместе с историей версий
// @Tags Docs
// @Param docId path string true "ID документа"
// @Success 204 "Документ удален"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/ [delete]
func (s *Services) deleteDoc(c echo.Context) error {
	doc := c.(DocContext).Doc
	if cfg.Demo {
		return EErrorMsgStatus(c, nil, http.StatusForbidden)
	}
	if err := s.bl.DeleteDoc(&doc); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// getDocStructure godoc
// @id getDocStructure
// @Summary doc: структура документа
// @Description Возвращает компактный список блоков верхнего уровня с превью текста
// @Tags Docs
// @Produce json
// @Param docId path string true "ID документа"
// @Success 200 {object} dto.DocStructure "Структура документа"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/structure/ [get]
func (s *Services) getDocStructure(c echo.Context) error {
	doc := c.(DocContext).Doc
	return c.JSON(http.StatusOK, s.bl.GetStructure(&doc))
}

// replaceDocContent godoc
// @id replaceDocContent
// @Summary doc: полная замена содержимого
// @Description Заменяет содержимое документа целиком. Отклоняется, если документ содержит сложные блоки
// @Tags Docs
// @Accept json
// @Produce json
// @Param docId path string true "ID документа"
// @Param data body dto.DocReplaceContentRequest true "Новое содержимое"
// @Success 200 {object} dto.Doc "Документ после замены"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Failure 409 {object} apierrors.DefinedError "Документ содержит сложные блоки"
// @Router /api/doc/{docId}/content/ [post]
func (s *Services) replaceDocContent(c echo.Context) error {
	doc := c.(DocContext).Doc

	var req dto.DocReplaceContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return EError(c, err)
	}

	if err := s.bl.ReplaceContent(&doc, req.Content); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.bl.ToDTO(&doc))
}

// editDocBlocks godoc
// @id editDocBlocks
// @Summary doc: редактирование блоков
// @Description Применяет пакет операций к блокам верхнего уровня. Индексы всех операций считаются по состоянию документа до редактирования
// @Tags Docs
// @Accept json
// @Produce json
// @Param docId path string true "ID документа"
// @Param data body dto.DocEditBlocksRequest true "Операции редактирования"
// @Success 200 {object} dto.DocEditResult "Результат применения операций"
// @Failure 400 {object} apierrors.DefinedError "Ни одна операция не применена"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/blocks/ [post]
func (s *Services) editDocBlocks(c echo.Context) error {
	doc := c.(DocContext).Doc

	var req dto.DocEditBlocksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return EError(c, err)
	}

	res, err := s.bl.EditBlocks(&doc, req.Operations)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// editDocAccordion godoc
// @id editDocAccordion
// @Summary doc: редактирование аккордеона
// @Description Редактирует секции блока-аккордеона: добавление, изменение и удаление
// @Tags Docs
// @Accept json
// @Produce json
// @Param docId path string true "ID документа"
// @Param data body dto.DocEditAccordionRequest true "Операции над секциями"
// @Success 200 {object} dto.DocEditResult "Результат применения операций"
// @Failure 400 {object} apierrors.DefinedError "Целевой блок не является аккордеоном"
// @Failure 404 {object} apierrors.DefinedError "Блок аккордеона не найден"
// @Router /api/doc/{docId}/accordion/ [post]
func (s *Services) editDocAccordion(c echo.Context) error {
	doc := c.(DocContext).Doc

	var req dto.DocEditAccordionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return EError(c, err)
	}

	res, err := s.bl.EditAccordion(&doc, req)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// getDocHistoryList godoc
// @id getDocHistoryList
// @Summary doc: история версий документа
// @Description Возвращает список версий документа без содержимого, новые сверху
// @Tags Docs
// @Produce json
// @Param docId path string true "ID документа"
// @Success 200 {array} dto.DocSnapshotLight "Список версий"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/history/ [get]
func (s *Services) getDocHistoryList(c echo.Context) error {
	doc := c.(DocContext).Doc

	snapshots, err := s.bl.ListSnapshots(&doc)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, snapshots)
}

// getDocHistory godoc
// @id getDocHistory
// @Summary doc: получение версии документа
// @Description Возвращает версию документа с содержимым
// @Tags Docs
// @Produce json
// @Param docId path string true "ID документа"
// @Param seqId path int true "Номер версии"
// @Success 200 {object} dto.DocSnapshot "Версия документа"
// @Failure 404 {object} apierrors.DefinedError "Версия не найдена"
// @Router /api/doc/{docId}/history/{seqId}/ [get]
func (s *Services) getDocHistory(c echo.Context) error {
	doc := c.(DocContext).Doc

	seqId, err := strconv.Atoi(c.Param("seqId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrDocSnapshotNotFound)
	}

	snapshot, err := s.bl.GetSnapshot(&doc, seqId)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.bl.SnapshotToDTO(snapshot))
}

// restoreDocFromHistory godoc
// @id restoreDocFromHistory
// @Summary doc: восстановление версии документа
// @Description Возвращает документ к выбранной версии. Текущее содержимое сохраняется в историю
// @Tags Docs
// @Produce json
// @Param docId path string true "ID документа"
// @Param seqId path int true "Номер версии"
// @Success 200 {object} dto.Doc "Документ после восстановления"
// @Failure 404 {object} apierrors.DefinedError "Версия не найдена"
// @Router /api/doc/{docId}/history/{seqId}/ [post]
func (s *Services) restoreDocFromHistory(c echo.Context) error {
	doc := c.(DocContext).Doc

	seqId, err := strconv.Atoi(c.Param("seqId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrDocSnapshotNotFound)
	}

	if err := s.bl.RestoreSnapshot(&doc, seqId); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.bl.ToDTO(&doc))
}

// exportDoc godoc
// @id exportDoc
// @Summary doc: экспорт документа
// @Description Экспортирует документ в формат html, print или markdown
// @Tags Docs
// @Produce html
// @Param docId path string true "ID документа"
// @Param format query string false "Формат экспорта (html|print|markdown)" default(html)
// @Success 200 {string} string "Содержимое документа в выбранном формате"
// @Failure 400 {object} apierrors.DefinedError "Неизвестный формат экспорта"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Router /api/doc/{docId}/export/ [get]
func (s *Services) exportDoc(c echo.Context) error {
	doc := c.(DocContext).Doc

	format := c.QueryParam("format")
	if format == "" {
		format = "html"
	}

	content, mime, err := s.bl.Export(&doc, format)
	if err != nil {
		return EError(c, err)
	}
	return c.Blob(http.StatusOK, mime, []byte(content))
}

// importDocHTML godoc
// @id importDocHTML
// @Summary doc: импорт содержимого из HTML
// @Description Заменяет содержимое документа деревом, построенным из переданного HTML
// @Tags Docs
// @Accept html
// @Produce json
// @Param docId path string true "ID документа"
// @Success 200 {object} dto.Doc "Документ после импорта"
// @Failure 400 {object} apierrors.DefinedError "Некорректный HTML"
// @Failure 404 {object} apierrors.DefinedError "Документ не найден"
// @Failure 409 {object} apierrors.DefinedError "Документ содержит сложные блоки"
// @Router /api/doc/{docId}/import/html/ [post]
func (s *Services) importDocHTML(c echo.Context) error {
	doc := c.(DocContext).Doc

	if err := s.bl.ImportHTML(&doc, c.Request().Body); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.bl.ToDTO(&doc))
}
