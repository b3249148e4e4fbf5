package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	fontRegular = "DejaVuSans.ttf"
	fontBold    = "DejaVuSans-Bold.ttf"
)

// CertificateData данные для сертификата о прохождении теста
type CertificateData struct {
	Taker          model.Taker
	Specialization string
	Difficulty     model.Difficulty
	Result         model.Result
	Review         []model.ReviewItem
	IssuedAt       time.Time
	// SessionID если задан, в сертификат добавляется QR код для проверки результата
	SessionID      string
}

// VerificationCode строка, которая кодируется в QR код сертификата
func VerificationCode(d CertificateData) string {
	return fmt.Sprintf("session=%s;taker=%d;spec=%s;level=%s;score=%d/%d;grade=%s",
		d.SessionID, d.Taker.TelegramID, d.Specialization, d.Difficulty,
		d.Result.CorrectCount, d.Result.TotalQuestions, d.Result.Grade)
}

// Generator формирует PDF сертификаты
type Generator struct {
	fontDir string
}

// NewGenerator создает генератор. Если fontDir пуст или в нем нет шрифтов DejaVu,
// используется встроенный Helvetica без кириллицы.
func NewGenerator(fontDir string) *Generator {
	return &Generator{fontDir: fontDir}
}

func (g *Generator) hasUTF8Fonts() bool {
	if g.fontDir == "" {
		return false
	}
	for _, name := range []string{fontRegular, fontBold} {
		if _, err := os.Stat(filepath.Join(g.fontDir, name)); err != nil {
			return false
		}
	}
	return true
}

// Certificate генерирует сертификат в формате A4 и возвращает его содержимое
func (g *Generator) Certificate(d CertificateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if g.hasUTF8Fonts() {
		family = "DejaVu"
		pdf.AddUTF8Font(family, "", filepath.Join(g.fontDir, fontRegular))
		pdf.AddUTF8Font(family, "B", filepath.Join(g.fontDir, fontBold))
		tr = func(s string) string { return s }
	}

	issued := d.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	pdf.SetTitle("Certificate", true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 24)
	pdf.Ln(20)
	pdf.CellFormat(0, 14, tr("СЕРТИФИКАТ"), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 14)
	pdf.CellFormat(0, 10, tr("о прохождении тестирования"), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 12, tr(d.Taker.FullName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(family, "", 12)
	info := fmt.Sprintf("Должность: %s\nПодразделение: %s\nСпециализация: %s\nУровень сложности: %s\n",
		d.Taker.Position, d.Taker.Department, d.Specialization, d.Difficulty.Title())
	pdf.MultiCell(0, 8, tr(info), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(family, "B", 14)
	score := fmt.Sprintf("Результат: %d из %d (%.1f%%)\nОценка: %s\nВремя прохождения: %s",
		d.Result.CorrectCount, d.Result.TotalQuestions, d.Result.Percentage, d.Result.Grade, d.Result.ElapsedTime)
	pdf.MultiCell(0, 9, tr(score), "", "L", false)
	pdf.Ln(6)

	if len(d.Review) > 0 {
		pdf.SetFont(family, "B", 12)
		pdf.CellFormat(20, 8, tr("№"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 8, tr("Правильные"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 8, tr("Ваш ответ"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 8, "", "1", 1, "C", false, 0, "")

		pdf.SetFont(family, "", 11)
		for _, item := range d.Review {
			mark := "-"
			if item.Matched {
				mark = "+"
			}
			pdf.CellFormat(20, 7, fmt.Sprint(item.Number), "1", 0, "C", false, 0, "")
			pdf.CellFormat(60, 7, joinNumbers(item.Correct), "1", 0, "C", false, 0, "")
			pdf.CellFormat(60, 7, joinNumbers(item.Selected), "1", 0, "C", false, 0, "")
			pdf.CellFormat(0, 7, mark, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(0, 8, tr("Дата выдачи: "+issued.Format("02.01.2006")), "", 1, "R", false, 0, "")

	if d.SessionID != "" {
		png, err := qrcode.Encode(VerificationCode(d), qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to encode verification code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verification", opts, bytes.NewReader(png))
		pdf.ImageOptions("verification", 170, pdf.GetY()+2, 30, 30, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName имя файла сертификата для отправки пользователю
func FileName(specialization string) string {
	return fmt.Sprintf("certificate_%s.pdf", specialization)
}

func joinNumbers(numbers []int) string {
	if len(numbers) == 0 {
		return "-"
	}
	var buf bytes.Buffer
	for i, n := range numbers {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprint(&buf, n)
	}
	return buf.String()
}
