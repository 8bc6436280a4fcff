package config

import (
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
)

var Cloudinary *cloudinary.Cloudinary

// ConnectCloudinary khởi tạo client Cloudinary để lưu file/ảnh nhận từ LINE.
// CLOUDINARY_URL không cấu hình thì bỏ qua, attachment chỉ được ghi log.
func ConnectCloudinary() {
	if os.Getenv("CLOUDINARY_URL") == "" {
		log.Println("CLOUDINARY_URL chưa cấu hình, tắt upload attachment")
		return
	}

	var err error
	Cloudinary, err = cloudinary.New()
	if err != nil {
		log.Printf("Lỗi khi khởi tạo Cloudinary: %v", err)
		Cloudinary = nil
	}
}
