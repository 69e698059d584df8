package i18n

var catalog = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":                   "请求参数错误",
		"error.unauthorized":                  "未登录或登录已失效",
		"error.not_found":                     "资源不存在",
		"error.server_error":                  "服务器错误，请稍后重试",
		"error.too_many_requests":             "请求过于频繁，请稍后再试",
		"error.admin_login_invalid":           "用户名或密码错误",
		"error.login_failed":                  "登录失败",
		"error.password_old_invalid":          "当前密码错误",
		"error.password_weak":                 "密码强度不足",
		"error.password_min_length":           "密码长度至少 %d 位",
		"error.password_require_upper":        "密码需包含大写字母",
		"error.password_require_lower":        "密码需包含小写字母",
		"error.password_require_number":       "密码需包含数字",
		"error.password_require_special":      "密码需包含特殊字符",
		"error.password_contains_username":    "密码不能包含用户名",
		"error.username_invalid":              "用户名需为 3-32 位字母、数字或 _ . -",
		"error.username_taken":                "用户名已被占用",
		"error.credentials_nothing_to_change": "请填写新的用户名或密码",
		"error.user_not_found":                "管理员不存在",
		"error.save_failed":                   "保存失败",
		"error.settings_invalid":              "设置内容无效",
		"error.upload_file_missing":           "请选择要上传的文件",
		"error.upload_empty":                  "文件内容为空",
		"error.upload_too_large":              "文件大小超过限制",
		"error.upload_type_invalid":           "文件类型不被允许",
		"error.upload_dimension_too_large":    "图片尺寸超过限制",
		"error.upload_scene_invalid":          "不支持的上传类型",
		"error.upload_failed":                 "上传失败",
		"error.construction_unavailable":      "暂时无法读取站点状态",
		"error.profile_fetch_failed":          "获取站点资料失败",
		"error.rate_limited":                  "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":        "限流服务不可用，请稍后重试",
		"message.credentials_updated":         "账号信息已更新",
		"message.login_required":              "请登录管理后台",
		"message.logged_out":                  "已退出登录",
	},
	LocaleZhTW: {
		"error.bad_request":                   "請求參數錯誤",
		"error.unauthorized":                  "未登入或登入已失效",
		"error.not_found":                     "資源不存在",
		"error.server_error":                  "伺服器錯誤，請稍後重試",
		"error.too_many_requests":             "請求過於頻繁，請稍後再試",
		"error.admin_login_invalid":           "使用者名稱或密碼錯誤",
		"error.login_failed":                  "登入失敗",
		"error.password_old_invalid":          "目前密碼錯誤",
		"error.password_weak":                 "密碼強度不足",
		"error.password_min_length":           "密碼長度至少 %d 位",
		"error.password_require_upper":        "密碼需包含大寫字母",
		"error.password_require_lower":        "密碼需包含小寫字母",
		"error.password_require_number":       "密碼需包含數字",
		"error.password_require_special":      "密碼需包含特殊字元",
		"error.password_contains_username":    "密碼不能包含使用者名稱",
		"error.username_invalid":              "使用者名稱需為 3-32 位字母、數字或 _ . -",
		"error.username_taken":                "使用者名稱已被使用",
		"error.credentials_nothing_to_change": "請填寫新的使用者名稱或密碼",
		"error.user_not_found":                "管理員不存在",
		"error.save_failed":                   "儲存失敗",
		"error.settings_invalid":              "設定內容無效",
		"error.upload_file_missing":           "請選擇要上傳的檔案",
		"error.upload_empty":                  "檔案內容為空",
		"error.upload_too_large":              "檔案大小超過限制",
		"error.upload_type_invalid":           "檔案類型不被允許",
		"error.upload_dimension_too_large":    "圖片尺寸超過限制",
		"error.upload_scene_invalid":          "不支援的上傳類型",
		"error.upload_failed":                 "上傳失敗",
		"error.construction_unavailable":      "暫時無法讀取網站狀態",
		"error.profile_fetch_failed":          "取得網站資料失敗",
		"error.rate_limited":                  "操作過於頻繁，請 %d 秒後再試",
		"error.rate_limit_unavailable":        "限流服務不可用，請稍後重試",
		"message.credentials_updated":         "帳號資訊已更新",
		"message.login_required":              "請登入管理後台",
		"message.logged_out":                  "已登出",
	},
	LocaleEnUS: {
		"error.bad_request":                   "Invalid request",
		"error.unauthorized":                  "Not signed in or session expired",
		"error.not_found":                     "Not found",
		"error.server_error":                  "Server error, please try again later",
		"error.too_many_requests":             "Too many requests, please try again later",
		"error.admin_login_invalid":           "Invalid username or password",
		"error.login_failed":                  "Login failed",
		"error.password_old_invalid":          "Current password is incorrect",
		"error.password_weak":                 "Password is too weak",
		"error.password_min_length":           "Password must be at least %d characters",
		"error.password_require_upper":        "Password must contain an uppercase letter",
		"error.password_require_lower":        "Password must contain a lowercase letter",
		"error.password_require_number":       "Password must contain a number",
		"error.password_require_special":      "Password must contain a special character",
		"error.password_contains_username":    "Password must not contain the username",
		"error.username_invalid":              "Username must be 3-32 letters, digits or _ . -",
		"error.username_taken":                "Username is already taken",
		"error.credentials_nothing_to_change": "Provide a new username or password",
		"error.user_not_found":                "Admin not found",
		"error.save_failed":                   "Save failed",
		"error.settings_invalid":              "Invalid settings",
		"error.upload_file_missing":           "Choose a file to upload",
		"error.upload_empty":                  "File is empty",
		"error.upload_too_large":              "File is too large",
		"error.upload_type_invalid":           "File type is not allowed",
		"error.upload_dimension_too_large":    "Image dimensions are too large",
		"error.upload_scene_invalid":          "Unsupported upload type",
		"error.upload_failed":                 "Upload failed",
		"error.construction_unavailable":      "Site status is temporarily unavailable",
		"error.profile_fetch_failed":          "Failed to load the site profile",
		"error.rate_limited":                  "Too many attempts, retry in %d seconds",
		"error.rate_limit_unavailable":        "Rate limiter unavailable, please try again later",
		"message.credentials_updated":         "Account updated",
		"message.login_required":              "Please sign in to the admin panel",
		"message.logged_out":                  "Signed out",
	},
}
