// devtoken 为本地联调签发身份令牌，生产环境由身份服务签发
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/util"
)

func main() {
	userID := flag.Uint("user", 1, "用户ID")
	role := flag.String("role", string(model.Student), "角色: student/teacher/admin")
	configDir := flag.String("config", "configs", "配置文件目录，未指定 -secret 时从中读取 jwt.secret")
	secret := flag.String("secret", "", "签名密钥")
	ttl := flag.Duration("ttl", 24*time.Hour, "有效期")
	flag.Parse()

	key := *secret
	if key == "" {
		cfg, err := config.LoadConfig(*configDir)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		key = cfg.JWT.Secret
	}

	r := model.UserRole(*role)
	if !r.Valid() {
		log.Fatalf("unknown role %q", r)
	}

	token, err := util.GenerateJWT(*userID, r, key, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
