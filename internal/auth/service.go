package auth

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"gorm.io/gorm"

	"contract-admin-api/config"
	"contract-admin-api/internal/util"
)

type AuthService struct {
	DB  *gorm.DB
	CFG *config.Config
}

var sendMail = smtp.SendMail

func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

func (s *AuthService) CreateUser(user User) (*User, error) {
	if user.Role == "" {
		user.Role = RoleViewer
	}
	if !validRole(user.Role) {
		return nil, fmt.Errorf("unknown role: %s", user.Role)
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.DB.Create(&user).Error; err != nil {
		// unique violation wording differs between postgres and sqlite
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
			return nil, errors.New("Ya existe una cuenta con este correo")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) GetUser(email string) (*User, error) {
	var user User
	result := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(id int) (*User, error) {
	var user User
	result := s.DB.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetAllUsers() ([]User, error) {
	var users []User
	result := s.DB.Order("id asc").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// SetRole changes one user's role. Only roles from the fixed set are
// accepted.
func (s *AuthService) SetRole(id int, role string) (*User, error) {
	if !validRole(role) {
		return nil, fmt.Errorf("unknown role: %s", role)
	}

	var user User
	if err := s.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&User{}).Where("id = ?", id).Update("role", role).Error; err != nil {
		return nil, err
	}

	user.Role = role
	return &user, nil
}

func (s *AuthService) SendOTP(email string) (*User, string, error) {
	var user User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, "", errors.New("user not found")
	}

	otp := fmt.Sprintf("%06d", util.RandomInt(100000, 999999))

	record := OTP{
		Email: user.Email,
		Code:  otp,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, "", err
	}

	from := s.CFG.GmailUser
	password := s.CFG.GmailPass
	to := []string{user.Email}
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	subject := "Código para restablecer la contraseña"
	body := fmt.Sprintf(
		"Hola,\n\n"+
			"Su código para restablecer la contraseña es: %s\n\n"+
			"El código expira en 10 minutos.\n\n"+
			"Gracias.",
		otp,
	)

	// header and body separated by a blank line, CRLF line endings
	message := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s",
		user.Email,
		subject,
		body,
	))

	smtpAuth := smtp.PlainAuth("", from, password, smtpHost)

	if err := sendMail(smtpHost+":"+smtpPort, smtpAuth, from, to, message); err != nil {
		log.Printf("Error sending email to %s: %v\n", user.Email, err)
		return nil, "", errors.New("failed to send OTP email")
	}

	return &user, otp, nil
}

// ResetPassword verifies the latest OTP for the email and replaces the
// password. Codes older than 10 minutes are rejected.
func (s *AuthService) ResetPassword(email, code, newPassword string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var otp OTP
	if err := s.DB.Where("email = ? AND code = ?", email, code).
		Order("created_at desc").First(&otp).Error; err != nil {
		return nil, errors.New("invalid OTP")
	}

	var user User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if time.Since(otp.CreatedAt) > 10*time.Minute {
		return nil, errors.New("OTP expired")
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(&User{}).Where("email = ?", email).
		Update("password", hashed).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
