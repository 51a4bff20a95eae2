package database

import (
	"errors"
	"fmt"

	"teleradiology-case-routing/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type seedRadiologist struct {
	email          string
	name           string
	qualification  string
	specialization string
	licenseNumber  string
	experience     int
	phone          string
	specialties    []string
}

type seedCase struct {
	patientName     string
	patientAge      int
	modality        string
	imageURL        string
	clinicalHistory string
	priority        entity.CasePriority
}

type seedCenter struct {
	email   string
	name    string
	address string
	phone   string
	license string
	cases   []seedCase
}

var seedRadiologists = []seedRadiologist{
	{"neuro@rad.com", "Dr. John Smith", "MD Radiology, DNB Neuro", "Neuroradiology", "RAD001", 10, "1234567890",
		[]string{"MRI Brain", "CT Head", "MRA", "Spine Imaging"}},
	{"cardiac@rad.com", "Dr. Sarah Johnson", "MD Radiology, Fellowship Cardiac Imaging", "Cardiac Radiology", "RAD002", 8, "2345678901",
		[]string{"Cardiac CT", "Cardiac MRI", "Chest X-ray", "Nuclear Cardiology"}},
	{"msk@rad.com", "Dr. Michael Chen", "MD Radiology, Fellowship MSK", "Musculoskeletal", "RAD003", 12, "3456789012",
		[]string{"Joint MRI", "Sports Imaging", "Bone Scans", "Arthography"}},
	{"pediatric@rad.com", "Dr. Emily Rodriguez", "MD Radiology, Fellowship Pediatric", "Pediatric Radiology", "RAD004", 15, "4567890123",
		[]string{"Pediatric CT", "Pediatric MRI", "Pediatric X-ray", "Pediatric Ultrasound"}},
	{"breast@rad.com", "Dr. Lisa Wong", "MD Radiology, Fellowship Breast Imaging", "Breast Imaging", "RAD005", 9, "5678901234",
		[]string{"Mammography", "Breast MRI", "Breast Ultrasound", "Breast Biopsy"}},
}

var seedCenters = []seedCenter{
	{
		email:   "city@imaging.com",
		name:    "City Imaging Center",
		address: "123 Main Street, Downtown, NY 10001",
		phone:   "9876543210",
		license: "CEN001",
		cases: []seedCase{
			{"John Doe", 45, "MRI Brain", "https://images.unsplash.com/photo-1559757175-5700dde675bc", "Persistent headaches and dizziness for 2 weeks", entity.CasePriorityUrgent},
			{"Mary Smith", 62, "Cardiac CT", "https://images.unsplash.com/photo-1576091160399-112ba8d25d1d", "Chest pain and shortness of breath", entity.CasePriorityEmergency},
			{"Sarah Johnson", 35, "Mammography", "https://images.unsplash.com/photo-1579154204601-01588f351e67", "Routine screening", entity.CasePriorityRoutine},
			{"Michael Brown", 28, "Joint MRI", "https://images.unsplash.com/photo-1530026405186-ed1f139313f8", "Sports injury to right knee", entity.CasePriorityUrgent},
			{"Emily Davis", 8, "Pediatric CT", "https://images.unsplash.com/photo-1581595220892-b0739db3ba8c", "Persistent abdominal pain", entity.CasePriorityEmergency},
		},
	},
	{
		email:   "metro@scan.com",
		name:    "Metro Scan & Diagnostics",
		address: "456 Park Avenue, Midtown, NY 10022",
		phone:   "8765432109",
		license: "CEN002",
		cases: []seedCase{
			{"Robert Wilson", 55, "Cardiac MRI", "https://images.unsplash.com/photo-1576091160550-2173dba999ef", "Follow-up after cardiac surgery", entity.CasePriorityUrgent},
			{"Lisa Anderson", 42, "Breast MRI", "https://images.unsplash.com/photo-1579154204600-3e8c8e5f3dc0", "Suspicious mammogram findings", entity.CasePriorityEmergency},
			{"James Taylor", 15, "Pediatric MRI", "https://images.unsplash.com/photo-1581595220892-2d0d35707d4e", "Chronic headaches", entity.CasePriorityRoutine},
			{"Patricia Martinez", 68, "CT Head", "https://images.unsplash.com/photo-1559757148-5c350d0d3c56", "Recent fall with head injury", entity.CasePriorityEmergency},
			{"David Thompson", 50, "Spine Imaging", "https://images.unsplash.com/photo-1530026405186-ed1f139313f8", "Lower back pain with radiculopathy", entity.CasePriorityUrgent},
		},
	},
}

// SeedResult counts what a Seed run inserted.
type SeedResult struct {
	Radiologists int
	Centers      int
	Cases        int
}

// Seed inserts demo radiologists, centers and pending cases. Accounts whose email
// already exists are skipped, along with their cases, so running it twice is safe.
// Radiologists start unavailable.
func Seed(db *gorm.DB) (*SeedResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	result := &SeedResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, rad := range seedRadiologists {
			exists, err := userExists(tx, rad.email)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			user := &entity.User{Email: rad.email, Password: string(hashed), Role: entity.RoleRadiologist}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("seed radiologist %s: %w", rad.email, err)
			}
			profile := &entity.RadiologistProfile{
				UserID:         user.ID,
				Name:           rad.name,
				Qualification:  rad.qualification,
				Specialization: rad.specialization,
				LicenseNumber:  rad.licenseNumber,
				Experience:     rad.experience,
				Phone:          rad.phone,
				IsAvailable:    false,
				Specialties:    entity.NewSpecialties(rad.specialties),
			}
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("seed radiologist profile %s: %w", rad.email, err)
			}
			result.Radiologists++
		}

		for _, center := range seedCenters {
			exists, err := userExists(tx, center.email)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			user := &entity.User{Email: center.email, Password: string(hashed), Role: entity.RoleCenter}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("seed center %s: %w", center.email, err)
			}
			profile := &entity.CenterProfile{
				UserID:  user.ID,
				Name:    center.name,
				Address: center.address,
				Phone:   center.phone,
				License: center.license,
			}
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("seed center profile %s: %w", center.email, err)
			}
			result.Centers++

			for _, sc := range center.cases {
				c := &entity.Case{
					PatientName:     sc.patientName,
					PatientAge:      sc.patientAge,
					Modality:        sc.modality,
					ImageURL:        sc.imageURL,
					ClinicalHistory: sc.clinicalHistory,
					Priority:        sc.priority,
					Status:          entity.CaseStatusPending,
					CreatorID:       user.ID,
				}
				if err := tx.Omit("Creator", "Assignee", "Report").Create(c).Error; err != nil {
					return fmt.Errorf("seed case %s: %w", sc.patientName, err)
				}
				result.Cases++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("Seed complete: radiologists=%d centers=%d cases=%d", result.Radiologists, result.Centers, result.Cases)
	return result, nil
}

func userExists(db *gorm.DB, email string) (bool, error) {
	var user entity.User
	err := db.Select("id").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
