package handlers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/gamevault/internal/importer"
	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/internal/repositories"
	"github.com/mroshb/gamevault/internal/security"
	"github.com/mroshb/gamevault/internal/services"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
)

var spreadsheetTypes = []string{".xlsx", ".xlsm"}

// AdminHandler serves the management surface: users, catalog and code
// inventory.
type AdminHandler struct {
	users         *services.UserService
	codes         *services.CodeService
	imports       *services.ImporterService
	gameRepo      *repositories.GameRepository
	codeRepo      *repositories.CodeRepository
	maxUploadSize int64
}

func NewAdminHandler(
	users *services.UserService,
	codes *services.CodeService,
	imports *services.ImporterService,
	gameRepo *repositories.GameRepository,
	codeRepo *repositories.CodeRepository,
	maxUploadSize int64,
) *AdminHandler {
	return &AdminHandler{
		users:         users,
		codes:         codes,
		imports:       imports,
		gameRepo:      gameRepo,
		codeRepo:      codeRepo,
		maxUploadSize: maxUploadSize,
	}
}

// --- users ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	sanitized := make([]*models.User, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, users[i].Sanitize())
	}
	c.JSON(http.StatusOK, gin.H{"users": sanitized})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	user, err := h.users.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Sanitize()})
}

type userUpdateRequest struct {
	Username    *string    `json:"username"`
	Password    *string    `json:"password"`
	Points      *int64     `json:"points"`
	VipExpireAt *time.Time `json:"vipExpireAt"`
	IsAdmin     *bool      `json:"isAdmin"`
	IsActive    *bool      `json:"isActive"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "malformed update body")
		return
	}
	if req.Username != nil {
		cleaned := security.SanitizeString(*req.Username)
		if !security.ValidateUsername(cleaned) {
			respondValidation(c, "invalid username")
			return
		}
		req.Username = &cleaned
	}
	if req.Points != nil && *req.Points < 0 {
		respondValidation(c, "points must not be negative")
		return
	}

	user, err := h.users.UpdateUser(userID, &services.AdminUserUpdate{
		Username:    req.Username,
		Password:    req.Password,
		Points:      req.Points,
		VipExpireAt: req.VipExpireAt,
		IsAdmin:     req.IsAdmin,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Sanitize()})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	if err := h.users.DeleteUser(userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

type adjustPointsRequest struct {
	Delta       int64  `json:"delta" binding:"required"`
	Description string `json:"description"`
}

func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "delta is required")
		return
	}

	description := security.SanitizeString(req.Description)
	if description == "" {
		description = "manual adjustment"
	}

	balance, err := h.users.AdjustPoints(userID, req.Delta, description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": balance})
}

// --- games ---

func (h *AdminHandler) ListGames(c *gin.Context) {
	games, err := h.gameRepo.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

type gameRequest struct {
	GameType        string `json:"gameType"`
	GameName        string `json:"gameName" binding:"required"`
	DownloadURL     string `json:"downloadUrl" binding:"required"`
	Password        string `json:"password"`
	ExtractPassword string `json:"extractPassword"`
	Note            string `json:"note"`
}

func (h *AdminHandler) CreateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "gameName and downloadUrl are required")
		return
	}

	game := &models.Game{
		GameType:        security.SanitizeString(req.GameType),
		GameName:        security.SanitizeHTML(security.SanitizeString(req.GameName)),
		DownloadURL:     security.SanitizeString(req.DownloadURL),
		Password:        req.Password,
		ExtractPassword: req.ExtractPassword,
		Note:            security.SanitizeHTML(security.SanitizeString(req.Note)),
	}
	if err := h.gameRepo.Create(nil, game); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": game})
}

type gameUpdateRequest struct {
	GameType        *string `json:"gameType"`
	GameName        *string `json:"gameName"`
	DownloadURL     *string `json:"downloadUrl"`
	Password        *string `json:"password"`
	ExtractPassword *string `json:"extractPassword"`
	Note            *string `json:"note"`
}

func (h *AdminHandler) UpdateGame(c *gin.Context) {
	gameID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	var req gameUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "malformed update body")
		return
	}

	game, err := h.gameRepo.Update(gameID, &repositories.GameUpdate{
		GameName:        req.GameName,
		GameType:        req.GameType,
		DownloadURL:     req.DownloadURL,
		Password:        req.Password,
		ExtractPassword: req.ExtractPassword,
		Note:            req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *AdminHandler) DeleteGame(c *gin.Context) {
	gameID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	if err := h.gameRepo.Delete(nil, gameID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "game deleted"})
}

// UploadGames imports a games spreadsheet. mode=merge reconciles into
// the existing catalog, mode=overwrite replaces it keeping owned games.
func (h *AdminHandler) UploadGames(c *gin.Context) {
	mode := c.DefaultPostForm("mode", services.ImportModeMerge)

	file, err := h.openUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	candidates, total, err := importer.ReadGames(file)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.imports.ImportGames(candidates, mode)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Games import finished",
		"mode", mode, "rows", total,
		"inserted", report.Inserted, "updated", report.Updated, "deleted", report.Deleted,
		"failed", len(report.Failed))

	c.JSON(http.StatusOK, gin.H{"rows": total, "report": report})
}

// --- codes ---

func kindFromParam(c *gin.Context) (string, bool) {
	switch c.Param("kind") {
	case models.CodeKindVip:
		return models.CodeKindVip, true
	case models.CodeKindPayment:
		return models.CodeKindPayment, true
	default:
		respondValidation(c, "code kind must be vip or payment")
		return "", false
	}
}

type generateCodesRequest struct {
	Count     int   `json:"count" binding:"required"`
	ValidDays int   `json:"validDays"`
	Points    int64 `json:"points"`
}

func (h *AdminHandler) GenerateCodes(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	var req generateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "count is required")
		return
	}

	batch, err := h.codes.Generate(kind, req.Count, req.ValidDays, req.Points)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"codes": batch})
}

func (h *AdminHandler) ListCodes(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	codes, err := h.codeRepo.ListByKind(kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

type codeUpdateRequest struct {
	ValidDays *int   `json:"validDays"`
	Points    *int64 `json:"points"`
}

func (h *AdminHandler) UpdateCode(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}
	codeID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid code id")
		return
	}

	existing, err := h.codeRepo.GetByID(codeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing.Kind != kind {
		respondError(c, errors.New(errors.ErrCodeNotFound, "code not found"))
		return
	}

	var req codeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "malformed update body")
		return
	}

	code, err := h.codeRepo.Update(codeID, &repositories.CodeUpdate{
		ValidDays: req.ValidDays,
		Points:    req.Points,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (h *AdminHandler) DeleteCode(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}
	codeID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid code id")
		return
	}

	existing, err := h.codeRepo.GetByID(codeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing.Kind != kind {
		respondError(c, errors.New(errors.ErrCodeNotFound, "code not found"))
		return
	}

	if err := h.codeRepo.Delete(codeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code deleted"})
}

// DeleteAllCodes discards every code of the kind, claimed or not.
func (h *AdminHandler) DeleteAllCodes(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	if _, err := h.codeRepo.ReplaceAll(kind, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "codes deleted"})
}

// UploadCodes installs a spreadsheet as the complete code set of the
// kind, replacing whatever was there.
func (h *AdminHandler) UploadCodes(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	file, err := h.openUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	var batch []models.RedeemCode
	if kind == models.CodeKindVip {
		batch, err = importer.ReadVipCodes(file)
	} else {
		batch, err = importer.ReadPaymentCodes(file)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.codes.BulkReplace(kind, batch)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Code upload finished", "kind", kind, "installed", count)
	c.JSON(http.StatusOK, gin.H{"installed": count})
}

// openUpload validates and opens the multipart "file" field.
func (h *AdminHandler) openUpload(c *gin.Context) (multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New(errors.ErrCodeValidation, "file is required")
	}
	if !security.ValidateFileType(header.Filename, spreadsheetTypes) {
		return nil, errors.New(errors.ErrCodeValidation, "file must be an Excel spreadsheet")
	}
	if !security.ValidateFileSize(header.Size, h.maxUploadSize) {
		return nil, errors.New(errors.ErrCodeValidation, "file is empty or exceeds the size limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to open upload")
	}
	return file, nil
}
