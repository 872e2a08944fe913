package i18n

var vi = map[string]string{
	// 공통 오류
	"error.validation":   "Dữ liệu không hợp lệ",
	"error.notFound":     "Không tìm thấy dữ liệu",
	"error.unauthorized": "Vui lòng đăng nhập",
	"error.forbidden":    "Bạn không có quyền thực hiện thao tác này",
	"error.conflict":     "Dữ liệu đã tồn tại",
	"error.internal":     "Đã xảy ra lỗi, vui lòng thử lại",
	"error.badRequest":   "Yêu cầu không hợp lệ",

	// đăng ký / đăng nhập
	"register.usernameRequired":        "Vui lòng nhập tên người dùng",
	"register.emailRequired":           "Vui lòng nhập email",
	"register.emailInvalid":            "Email không hợp lệ",
	"register.emailExists":             "Email đã được sử dụng",
	"register.passwordRequired":        "Vui lòng nhập mật khẩu",
	"register.passwordTooShort":        "Mật khẩu phải có ít nhất 6 ký tự",
	"register.passwordTooLong":         "Mật khẩu không được dài quá 72 byte",
	"register.passwordInvalid":         "Mật khẩu phải chứa chữ, số và ký tự đặc biệt (trừ \" và ')",
	"register.confirmPasswordRequired": "Vui lòng xác nhận mật khẩu",
	"register.passwordMismatch":        "Mật khẩu xác nhận không khớp",
	"login.invalidCredentials":         "Email hoặc mật khẩu không đúng",

	// hồ sơ
	"profile.usernameRequired":        "Vui lòng nhập tên người dùng",
	"profile.emailRequired":           "Vui lòng nhập email",
	"profile.emailInvalid":            "Email không hợp lệ",
	"profile.oldPasswordRequired":     "Vui lòng nhập mật khẩu cũ",
	"profile.oldPasswordIncorrect":    "Mật khẩu cũ không chính xác",
	"profile.newPasswordRequired":     "Vui lòng nhập mật khẩu mới",
	"profile.passwordRequired":        "Vui lòng nhập mật khẩu mới",
	"profile.passwordTooShort":        "Mật khẩu phải có ít nhất 6 ký tự",
	"profile.passwordTooLong":         "Mật khẩu không được dài quá 72 byte",
	"profile.confirmPasswordRequired": "Vui lòng xác nhận mật khẩu",
	"profile.passwordMismatch":        "Mật khẩu mới và xác nhận không khớp",

	// đánh giá
	"review.pleaseSelectRating": "Vui lòng chọn số sao",
	"review.pleaseEnterComment": "Vui lòng nhập nội dung đánh giá",
	"review.commentTooLong":     "Nội dung đánh giá tối đa 300 ký tự",
	"review.alreadyReviewed":    "Bạn đã đánh giá mục này rồi",
	"review.invalidTarget":      "Nhà hàng hoặc món ăn không tồn tại",

	// khảo sát
	"survey.selectAtLeastOneTag": "Vui lòng chọn ít nhất một sở thích",
	"survey.tooManyTags":         "Chỉ được chọn tối đa 5 sở thích",
	"survey.unknownTag":          "Sở thích không hợp lệ",
	"survey.duplicateTag":        "Sở thích bị trùng",

	// quản trị
	"admin.restaurant.fieldRequired": "Vui lòng điền đầy đủ thông tin bắt buộc",
	"admin.restaurant.photoInvalid":  "Đường dẫn ảnh không hợp lệ",
	"admin.restaurant.duplicate":     "Nhà hàng với tên và địa chỉ này đã tồn tại",
	"admin.restaurant.hidden":        "Nhà hàng có món ăn nên đã được ẩn thay vì xóa",
	"admin.dish.nameViRequired":      "Tên món tiếng Việt không được để trống",
	"admin.dish.nameJaRequired":      "Tên món tiếng Nhật không được để trống",
	"admin.dish.restaurantRequired":  "Vui lòng chọn nhà hàng",
	"admin.dish.priceInvalid":        "Giá phải là số dương",
	"admin.dish.categoryRequired":    "Vui lòng chọn danh mục",

	// vị trí
	"location.fallback": "Không lấy được vị trí, đang dùng vị trí mặc định (Hà Nội)",
}

var ja = map[string]string{
	"error.validation":   "入力内容に誤りがあります",
	"error.notFound":     "データが見つかりません",
	"error.unauthorized": "ログインしてください",
	"error.forbidden":    "この操作を行う権限がありません",
	"error.conflict":     "すでに存在します",
	"error.internal":     "エラーが発生しました。もう一度お試しください",
	"error.badRequest":   "不正なリクエストです",

	"register.usernameRequired":        "ユーザー名を入力してください",
	"register.emailRequired":           "メールアドレスを入力してください",
	"register.emailInvalid":            "メールアドレスの形式が正しくありません",
	"register.emailExists":             "このメールアドレスはすでに使用されています",
	"register.passwordRequired":        "パスワードを入力してください",
	"register.passwordTooShort":        "パスワードは6文字以上で入力してください",
	"register.passwordTooLong":         "パスワードは72バイト以内で入力してください",
	"register.passwordInvalid":         "パスワードには英字・数字・記号（\" と ' を除く）を含めてください",
	"register.confirmPasswordRequired": "確認用パスワードを入力してください",
	"register.passwordMismatch":        "パスワードが一致しません",
	"login.invalidCredentials":         "メールアドレスまたはパスワードが正しくありません",

	"profile.usernameRequired":        "ユーザー名を入力してください",
	"profile.emailRequired":           "メールアドレスを入力してください",
	"profile.emailInvalid":            "メールアドレスの形式が正しくありません",
	"profile.oldPasswordRequired":     "現在のパスワードを入力してください",
	"profile.oldPasswordIncorrect":    "現在のパスワードが正しくありません",
	"profile.newPasswordRequired":     "新しいパスワードを入力してください",
	"profile.passwordRequired":        "新しいパスワードを入力してください",
	"profile.passwordTooShort":        "パスワードは6文字以上で入力してください",
	"profile.passwordTooLong":         "パスワードは72バイト以内で入力してください",
	"profile.confirmPasswordRequired": "確認用パスワードを入力してください",
	"profile.passwordMismatch":        "新しいパスワードと確認用パスワードが一致しません",

	"review.pleaseSelectRating": "評価を選択してください",
	"review.pleaseEnterComment": "レビュー内容を入力してください",
	"review.commentTooLong":     "レビューは300文字以内で入力してください",
	"review.alreadyReviewed":    "すでにレビュー済みです",
	"review.invalidTarget":      "レストランまたは料理が存在しません",

	"survey.selectAtLeastOneTag": "少なくとも1つ選択してください",
	"survey.tooManyTags":         "選択できるのは最大5つまでです",
	"survey.unknownTag":          "無効な好みです",
	"survey.duplicateTag":        "好みが重複しています",

	"admin.restaurant.fieldRequired": "必須項目を入力してください",
	"admin.restaurant.photoInvalid":  "画像URLが正しくありません",
	"admin.restaurant.duplicate":     "同じ名前と住所のレストランがすでに存在します",
	"admin.restaurant.hidden":        "メニューがあるため削除せず非表示にしました",
	"admin.dish.nameViRequired":      "ベトナム語の料理名を入力してください",
	"admin.dish.nameJaRequired":      "日本語の料理名を入力してください",
	"admin.dish.restaurantRequired":  "レストランを選択してください",
	"admin.dish.priceInvalid":        "価格は正の数で入力してください",
	"admin.dish.categoryRequired":    "カテゴリーを選択してください",

	"location.fallback": "位置情報を取得できないため、デフォルトの位置（ハノイ）を使用しています",
}
