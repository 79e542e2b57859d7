package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/utils"
	"github.com/yoockh/devconnect/internal/validation"
)

const maxAvatarBytes = 2 << 20

var avatarExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

type UserHandler struct {
	users   services.UserService
	avatars services.AvatarService
}

func NewUserHandler(users services.UserService, avatars services.AvatarService) *UserHandler {
	return &UserHandler{users: users, avatars: avatars}
}

func (h *UserHandler) Register(c *gin.Context) {
	const op = "UserHandler.Register"

	var in models.RegisterInput
	if !bindJSON(c, op, &in) {
		return
	}
	if err := validation.ValidateRegisterInput(in).Err(op); err != nil {
		writeError(c, err)
		return
	}

	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func (h *UserHandler) Login(c *gin.Context) {
	const op = "UserHandler.Login"

	var in models.LoginInput
	if !bindJSON(c, op, &in) {
		return
	}
	if err := validation.ValidateLoginInput(in).Err(op); err != nil {
		writeError(c, err)
		return
	}

	tok, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: "Bearer " + tok})
}

func (h *UserHandler) Current(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"avatar": u.Avatar,
	})
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	const op = "UserHandler.UploadAvatar"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > maxAvatarBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 2MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type from the first 512 bytes
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]
	ct := http.DetectContentType(head)
	ext, ok := avatarExt[ct]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "avatar must be png, jpeg or gif", nil))
		return
	}

	objectName := "avatars/" + userID + "/" + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), file)

	u, err := h.avatars.Upload(c.Request.Context(), userID, objectName, ct, body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "avatar": u.Avatar})
}
