package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/session"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
)

// maxClipboardBytes bounds /clipboard/import bodies.
const maxClipboardBytes = 4 << 20

var readRoutes = map[string]http.HandlerFunc{
	"/sequence":          sequenceHandler,
	"/sequence/list":     sequenceListHandler,
	"/sequence/stats":    statsHandler,
	"/sequence/validate": validateHandler,
	"/items/get":         getItemHandler,
	"/items/find":        findItemsHandler,
	"/selection":         selectionHandler,
	"/clipboard":         clipboardHandler,
	"/history":           historyHandler,
	"/catalog":           catalogHandler,
}

var writeRoutes = map[string]http.HandlerFunc{
	"/sequence/new":           newSequenceHandler,
	"/sequence/load":          loadSequenceHandler,
	"/sequence/save":          saveSequenceHandler,
	"/sequence/title":         titleHandler,
	"/items/add":              addItemHandler,
	"/items/update":           updateItemHandler,
	"/items/delete":           deleteItemHandler,
	"/items/move":             moveItemHandler,
	"/items/duplicate":        duplicateItemHandler,
	"/items/expand":           expandItemHandler,
	"/conditions/add":         addConditionHandler,
	"/conditions/update":      updateConditionHandler,
	"/conditions/delete":      deleteConditionHandler,
	"/triggers/add":           addTriggerHandler,
	"/triggers/update":        updateTriggerHandler,
	"/triggers/delete":        deleteTriggerHandler,
	"/triggers/global/add":    addGlobalTriggerHandler,
	"/triggers/global/delete": deleteGlobalTriggerHandler,
	"/selection/item":         selectItemHandler,
	"/selection/toggle":       toggleSelectionHandler,
	"/selection/all":          selectAllHandler,
	"/selection/clear":        clearSelectionHandler,
	"/selection/condition":    selectConditionHandler,
	"/selection/trigger":      selectTriggerHandler,
	"/selection/delete":       deleteSelectionHandler,
	"/clipboard/copy":         copyHandler,
	"/clipboard/cut":          cutHandler,
	"/clipboard/paste":        pasteHandler,
	"/clipboard/import":       importClipboardHandler,
	"/history/undo":           undoHandler,
	"/history/redo":           redoHandler,
}

type apiError struct {
	status int
	msg    string
}

func notFound(kind, id string) *apiError {
	return &apiError{status: http.StatusNotFound, msg: kind + " not found: " + id}
}

func rejected(op string) *apiError {
	return &apiError{status: http.StatusBadRequest, msg: op + " rejected"}
}

func badRequest(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

// mutate runs fn against the store under the session lock and writes its
// result.
func mutate(w http.ResponseWriter, fn func(st *editor.Store) (interface{}, *apiError)) {
	var (
		data interface{}
		aerr *apiError
	)
	sess.Do(func(st *editor.Store) {
		data, aerr = fn(st)
	})
	if aerr != nil {
		writeError(w, aerr.status, aerr.msg)
		return
	}
	writeOK(w, data)
}

// post decodes req and runs fn as a mutation.
func post(w http.ResponseWriter, r *http.Request, req interface{}, fn func(st *editor.Store) (interface{}, *apiError)) {
	if !decodePost(w, r, req) || !requireSession(w) {
		return
	}
	mutate(w, fn)
}

// get runs fn as a read.
func get(w http.ResponseWriter, r *http.Request, fn func(st *editor.Store) (interface{}, *apiError)) {
	if !requireGet(w, r) || !requireSession(w) {
		return
	}
	mutate(w, fn)
}

// indexOrEnd maps an omitted index to editor.End.
func indexOrEnd(i *int) int {
	if i == nil {
		return editor.End
	}
	return *i
}

// areaOrActive parses area, falling back to the active area when empty.
func areaOrActive(st *editor.Store, area string) (sequence.Area, *apiError) {
	if area == "" {
		return st.View().ActiveArea, nil
	}
	a, err := sequence.ParseArea(area)
	if err != nil {
		return "", badRequest(err.Error())
	}
	return a, nil
}

// Sequence

type sequenceResponse struct {
	Sequence *sequence.Sequence `json:"sequence"`
	Dirty    bool               `json:"dirty"`
	Path     string             `json:"path,omitempty"`
}

func sequenceHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !requireSession(w) {
		return
	}
	var resp sequenceResponse
	sess.Do(func(st *editor.Store) {
		resp.Sequence = st.Sequence()
		resp.Dirty = st.Dirty()
	})
	resp.Path = sess.Path()
	writeOK(w, resp)
}

func sequenceListHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !requireSession(w) {
		return
	}
	list, err := sess.List(r.Context())
	if err != nil && !errors.Is(err, session.ErrNoTarget) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []storage.Summary{}
	}
	writeOK(w, list)
}

type titleRequest struct {
	Title string `json:"title"`
}

func newSequenceHandler(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		return st.NewSequence(req.Title), nil
	})
}

func titleHandler(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.SetTitle(req.Title) {
			return nil, rejected("setTitle")
		}
		return nil, nil
	})
}

type loadRequest struct {
	ID       string             `json:"id,omitempty"`
	Path     string             `json:"path,omitempty"`
	Sequence *sequence.Sequence `json:"sequence,omitempty"`
}

// loadSequenceHandler loads from storage by id, from a file path, or from an
// inline sequence document.
func loadSequenceHandler(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if !decodePost(w, r, &req) || !requireSession(w) {
		return
	}

	var err error
	switch {
	case req.ID != "":
		err = sess.Load(r.Context(), req.ID)
	case req.Path != "":
		err = sess.OpenFile(req.Path)
	case req.Sequence != nil:
		mutate(w, func(st *editor.Store) (interface{}, *apiError) {
			if !st.LoadSequence(req.Sequence) {
				return nil, rejected("loadSequence")
			}
			return st.Sequence(), nil
		})
		return
	default:
		writeError(w, http.StatusBadRequest, "id, path or sequence required")
		return
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoTarget):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeOK(w, sess.Sequence())
	}
}

func saveSequenceHandler(w http.ResponseWriter, r *http.Request) {
	if !decodePost(w, r, nil) || !requireSession(w) {
		return
	}
	err := sess.Save(r.Context())
	switch {
	case errors.Is(err, session.ErrNoTarget):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeOK(w, map[string]bool{"dirty": sess.Dirty()})
	}
}

func statsHandler(w http.ResponseWriter, r *http.Request) {
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		return st.Stats(), nil
	})
}

func validateHandler(w http.ResponseWriter, r *http.Request) {
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		return sequence.Validate(st.Sequence()), nil
	})
}

// Items

func getItemHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		it := st.GetItemByID(id)
		if it == nil {
			return nil, notFound("item", id)
		}
		return map[string]interface{}{"item": it, "area": st.AreaOf(id)}, nil
	})
}

func findItemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		items := st.FindItems(q)
		if items == nil {
			items = []*sequence.Item{}
		}
		return items, nil
	})
}

type addItemRequest struct {
	Area     string         `json:"area"`
	ParentID string         `json:"parentId"`
	Index    *int           `json:"index"`
	Type     string         `json:"type"`
	Item     *sequence.Item `json:"item"`
}

func addItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		area, aerr := areaOrActive(st, req.Area)
		if aerr != nil {
			return nil, aerr
		}
		it := req.Item
		if it == nil {
			if req.Type == "" {
				return nil, badRequest("type or item required")
			}
			it = st.Catalog().NewItem(req.Type)
		}
		if it.ID == "" {
			it.ID = sequence.NewID()
		}
		if !st.AddItem(area, it, req.ParentID, indexOrEnd(req.Index)) {
			return nil, rejected("addItem")
		}
		return map[string]string{"id": it.ID}, nil
	})
}

type updateItemRequest struct {
	ID    string           `json:"id"`
	Patch editor.ItemPatch `json:"patch"`
}

func updateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if st.GetItemByID(req.ID) == nil {
			return nil, notFound("item", req.ID)
		}
		if !st.UpdateItem(req.ID, req.Patch) {
			return nil, rejected("updateItem")
		}
		return st.GetItemByID(req.ID), nil
	})
}

type idRequest struct {
	ID string `json:"id"`
}

func deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.DeleteItem(req.ID) {
			return nil, notFound("item", req.ID)
		}
		return nil, nil
	})
}

type moveItemRequest struct {
	ID       string `json:"id"`
	Area     string `json:"area"`
	ParentID string `json:"parentId"`
	Index    *int   `json:"index"`
}

func moveItemHandler(w http.ResponseWriter, r *http.Request) {
	var req moveItemRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if st.GetItemByID(req.ID) == nil {
			return nil, notFound("item", req.ID)
		}
		area, aerr := areaOrActive(st, req.Area)
		if aerr != nil {
			return nil, aerr
		}
		if !st.MoveItem(req.ID, area, req.ParentID, indexOrEnd(req.Index)) {
			return nil, rejected("moveItem")
		}
		return nil, nil
	})
}

func duplicateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		id := st.DuplicateItem(req.ID)
		if id == "" {
			return nil, notFound("item", req.ID)
		}
		return map[string]string{"id": id}, nil
	})
}

type expandRequest struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
}

func expandItemHandler(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.SetItemExpanded(req.ID, req.Expanded) {
			return nil, notFound("item", req.ID)
		}
		return nil, nil
	})
}

// Conditions and triggers

type entityRequest struct {
	ContainerID string             `json:"containerId"`
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Patch       editor.EntityPatch `json:"patch"`
}

func addConditionHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if req.Type == "" {
			return nil, badRequest("type required")
		}
		id := st.AddConditionOfType(req.ContainerID, req.Type)
		if id == "" {
			return nil, rejected("addCondition")
		}
		return map[string]string{"id": id}, nil
	})
}

func updateConditionHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.UpdateCondition(req.ContainerID, req.ID, req.Patch) {
			return nil, rejected("updateCondition")
		}
		return nil, nil
	})
}

func deleteConditionHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.DeleteCondition(req.ContainerID, req.ID) {
			return nil, rejected("deleteCondition")
		}
		return nil, nil
	})
}

func addTriggerHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if req.Type == "" {
			return nil, badRequest("type required")
		}
		id := st.AddTriggerOfType(req.ContainerID, req.Type)
		if id == "" {
			return nil, rejected("addTrigger")
		}
		return map[string]string{"id": id}, nil
	})
}

func updateTriggerHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.UpdateTrigger(req.ContainerID, req.ID, req.Patch) {
			return nil, rejected("updateTrigger")
		}
		return nil, nil
	})
}

func deleteTriggerHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.DeleteTrigger(req.ContainerID, req.ID) {
			return nil, rejected("deleteTrigger")
		}
		return nil, nil
	})
}

func addGlobalTriggerHandler(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if req.Type == "" {
			return nil, badRequest("type required")
		}
		trig := st.Catalog().NewTrigger(req.Type)
		if !st.AddGlobalTrigger(trig) {
			return nil, rejected("addGlobalTrigger")
		}
		return map[string]string{"id": trig.ID}, nil
	})
}

func deleteGlobalTriggerHandler(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		if !st.DeleteGlobalTrigger(req.ID) {
			return nil, notFound("trigger", req.ID)
		}
		return nil, nil
	})
}

// Selection

func selectionHandler(w http.ResponseWriter, r *http.Request) {
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		return st.Selection(), nil
	})
}

// selectWith applies a selection change and returns the new selection.
func selectWith(w http.ResponseWriter, r *http.Request, fn func(st *editor.Store, id string)) {
	var req idRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		fn(st, req.ID)
		return st.Selection(), nil
	})
}

func selectItemHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, (*editor.Store).SelectItem)
}

func toggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, (*editor.Store).ToggleItemSelection)
}

func selectConditionHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, (*editor.Store).SelectCondition)
}

func selectTriggerHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, (*editor.Store).SelectTrigger)
}

func selectAllHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, func(st *editor.Store, _ string) { st.SelectAllItems() })
}

func clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	selectWith(w, r, func(st *editor.Store, _ string) { st.ClearSelection() })
}

func deleteSelectionHandler(w http.ResponseWriter, r *http.Request) {
	post(w, r, nil, func(st *editor.Store) (interface{}, *apiError) {
		return map[string]int{"deleted": st.DeleteSelectedItems()}, nil
	})
}

// Clipboard

// clipboardHandler returns the clipboard as the interchange JSON array.
func clipboardHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !requireSession(w) {
		return
	}
	var data []byte
	sess.Do(func(st *editor.Store) {
		data = st.ExportClipboard()
	})
	if data == nil {
		data = []byte("[]")
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func copyHandler(w http.ResponseWriter, r *http.Request) {
	post(w, r, nil, func(st *editor.Store) (interface{}, *apiError) {
		return map[string]int{"count": st.CopySelectedItems()}, nil
	})
}

func cutHandler(w http.ResponseWriter, r *http.Request) {
	post(w, r, nil, func(st *editor.Store) (interface{}, *apiError) {
		return map[string]int{"count": st.CutSelectedItems()}, nil
	})
}

type pasteRequest struct {
	ParentID string `json:"parentId"`
}

func pasteHandler(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	post(w, r, &req, func(st *editor.Store) (interface{}, *apiError) {
		ids := st.PasteItems(req.ParentID)
		if ids == nil {
			return nil, rejected("pasteItems")
		}
		return map[string][]string{"ids": ids}, nil
	})
}

// importClipboardHandler takes the raw interchange array as the body.
func importClipboardHandler(w http.ResponseWriter, r *http.Request) {
	if !decodePost(w, r, nil) || !requireSession(w) {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxClipboardBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mutate(w, func(st *editor.Store) (interface{}, *apiError) {
		if !st.ImportClipboard(body) {
			return nil, badRequest("no items in clipboard data")
		}
		return map[string]int{"count": len(st.Clipboard().Items)}, nil
	})
}

// History

type historyResponse struct {
	Length  int  `json:"length"`
	Index   int  `json:"index"`
	Limit   int  `json:"limit"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
	Dirty   bool `json:"dirty"`
}

func historyState(st *editor.Store) historyResponse {
	h := st.History()
	return historyResponse{
		Length:  h.Len(),
		Index:   h.Index(),
		Limit:   h.Limit(),
		CanUndo: h.CanUndo(),
		CanRedo: h.CanRedo(),
		Dirty:   st.Dirty(),
	}
}

func historyHandler(w http.ResponseWriter, r *http.Request) {
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		return historyState(st), nil
	})
}

func undoHandler(w http.ResponseWriter, r *http.Request) {
	post(w, r, nil, func(st *editor.Store) (interface{}, *apiError) {
		if !st.Undo() {
			return nil, badRequest("nothing to undo")
		}
		return historyState(st), nil
	})
}

func redoHandler(w http.ResponseWriter, r *http.Request) {
	post(w, r, nil, func(st *editor.Store) (interface{}, *apiError) {
		if !st.Redo() {
			return nil, badRequest("nothing to redo")
		}
		return historyState(st), nil
	})
}

// View and catalog

func viewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		get(w, r, func(st *editor.Store) (interface{}, *apiError) {
			return st.View(), nil
		})
		return
	}
	var v editor.View
	post(w, r, &v, func(st *editor.Store) (interface{}, *apiError) {
		if err := st.SetView(v); err != nil {
			return nil, badRequest(err.Error())
		}
		return st.View(), nil
	})
}

func catalogHandler(w http.ResponseWriter, r *http.Request) {
	kind := catalog.Kind(r.URL.Query().Get("kind"))
	get(w, r, func(st *editor.Store) (interface{}, *apiError) {
		if kind != "" {
			return st.Catalog().Definitions(kind), nil
		}
		return map[string][]catalog.Definition{
			"items":      st.Catalog().Definitions(catalog.KindItem),
			"conditions": st.Catalog().Definitions(catalog.KindCondition),
			"triggers":   st.Catalog().Definitions(catalog.KindTrigger),
		}, nil
	})
}
