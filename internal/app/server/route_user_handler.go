package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/auth"
	"inboxradar/internal/config"
	"inboxradar/internal/database"
	"inboxradar/internal/domain"
	"inboxradar/internal/support"
)

func checkLogin(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func registerUser(w http.ResponseWriter, r *http.Request) {
	var credentials dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user := domain.User{
		Email:    credentials.Email,
		Password: credentials.Password,
	}

	// Validate email format
	if !auth.IsValidEmail(user.Email) {
		writeError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	// Check if password is provided
	if len(user.Password) < 8 {
		writeError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}

	// Hash the password
	hashedPassword, err := support.HashPassword(user.Password)
	if err != nil {
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}
	user.Password = hashedPassword

	// Check if email already exists
	var existingUser domain.User
	if err = database.DB.Where("email = ?", user.Email).First(&existingUser).Error; err == nil {
		writeError(w, "Email already in use", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, "Failed to query database", http.StatusInternalServerError)
		return
	}

	// The first account becomes the admin and is approved immediately;
	// everyone after that waits for approval.
	if err = database.DB.Select("id").Take(&existingUser).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		user.Role = "admin"
		user.IsApproved = true
	} else {
		user.Role = "user"
	}

	// Save user to the database
	if err = database.DB.Create(&user).Error; err != nil {
		writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func loginUser(w http.ResponseWriter, r *http.Request) {
	var credentials dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var user domain.User
	if err := database.DB.Where("email = ?", credentials.Email).First(&user).Error; err != nil {
		writeError(w, "User not found", http.StatusUnauthorized)
		return
	}

	// Compare passwords
	if !support.CheckPasswordHash(credentials.Password, user.Password) {
		writeError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	if !user.IsApproved {
		writeError(w, "Account pending approval", http.StatusForbidden)
		return
	}

	// Generate token
	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token, "role": user.Role})
}

func changePassword(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user := database.GetUserFromId(userID)

	var changeUserPassword dto.ChangePassword
	if err := json.NewDecoder(r.Body).Decode(&changeUserPassword); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if !support.CheckPasswordHash(changeUserPassword.OldPassword, user.Password) {
		writeError(w, "Invalid old password", http.StatusUnauthorized)
		return
	}

	if len(changeUserPassword.NewPassword) < 8 {
		writeError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}

	hashed, err := support.HashPassword(changeUserPassword.NewPassword)
	if err != nil {
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	err = database.ChangePassword(userID, hashed)
	if err != nil {
		writeError(w, "Failed to change password", http.StatusInternalServerError)
		log.Error(err)
		return
	}

	json.NewEncoder(w).Encode("Password changed successfully")
}

func saveSettings(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		log.Error("Error decoding request body:", err)
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	config.SetConfig(newConfig)

	json.NewEncoder(w).Encode(map[string]string{"message": "Configuration updated successfully"})
}

func getGlobalSettings(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(config.GetConfig())
}

func getPendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := database.GetPendingUsers()
	if err != nil {
		writeError(w, "Failed to load pending users", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

func approveUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || userID == 0 {
		writeError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := database.ApproveUser(uint(userID)); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to approve user", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "User approved"})
}
