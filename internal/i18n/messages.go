package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"success": "success",

		"error.bad_request":         "Invalid request",
		"error.unauthorized":        "Please sign in",
		"error.forbidden":           "You do not have permission to do that",
		"error.not_found":           "Not found",
		"error.internal":            "Something went wrong, please try again",
		"error.too_many_requests":   "Too many requests, please slow down",
		"error.jwt_secret_missing":  "Authentication is not configured",
		"error.auth_header_missing": "Missing Authorization header",
		"error.auth_header_invalid": "Malformed Authorization header",
		"error.token_invalid":       "Your session is invalid, please sign in again",
		"error.token_revoked":       "Your session has ended, please sign in again",
		"error.user_disabled":       "This account is disabled",
		"error.id_invalid":          "Invalid id",

		"error.email_invalid":            "Please enter a valid email address",
		"error.email_exists":             "An account with this email already exists",
		"error.invalid_credentials":      "Incorrect email or password",
		"error.login_rate_limited":       "Too many sign-in attempts, try again in %d seconds",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.profile_empty":            "Nothing to update",
		"error.role_invalid":             "Unknown role",
		"error.captcha_required":         "Please complete the captcha",
		"error.captcha_invalid":          "Captcha is incorrect or expired",
		"error.captcha_generate_failed":  "Could not generate captcha",

		"error.product_not_found":     "Product not found",
		"error.product_not_available": "This product is not available",
		"error.variant_invalid":       "Selected option is not available",
		"error.size_required":         "Please select a size",
		"error.size_invalid":          "Selected size is not offered",
		"error.out_of_stock":          "This product is out of stock",
		"error.slug_exists":           "Slug already exists",
		"error.product_invalid":       "Product details are invalid",
		"error.product_save_failed":   "Could not save product",

		"error.category_not_found":     "Category not found",
		"error.category_invalid":       "Category details are invalid",
		"error.category_in_use":        "This category still has products",
		"error.category_save_failed":   "Could not save category",
		"error.category_delete_failed": "Could not delete category",
		"error.brand_not_found":        "Brand not found",
		"error.brand_invalid":          "Brand details are invalid",
		"error.brand_in_use":           "This brand still has products",
		"error.brand_save_failed":      "Could not save brand",
		"error.brand_delete_failed":    "Could not delete brand",
		"error.product_query_invalid":  "Invalid product filter",

		"error.wishlist_item_not_found": "This product is not in your wishlist",
		"error.wishlist_failed":         "Could not update wishlist",
		"error.review_invalid":          "Rating must be between 1 and 5",
		"error.review_not_allowed":      "You can review products after they are delivered",
		"error.review_save_failed":      "Could not save review",
		"error.analytics_range_invalid": "Invalid date range",
		"error.analytics_fetch_failed":  "Could not load analytics",

		"error.quantity_invalid":    "Quantity must be at least 1",
		"error.cart_line_not_found": "Cart item not found",
		"error.cart_empty":          "Your cart is empty",
		"error.cart_failed":         "Could not update cart",

		"error.address_not_found":      "Address not found",
		"error.address_invalid":        "Please fill in all required address fields",
		"error.address_save_failed":    "Could not save address",
		"error.bank_account_invalid":   "Bank account details are invalid",
		"error.bank_account_not_found": "Bank account not found",

		"error.insufficient_stock":            "Not enough stock for an item in your cart",
		"error.cod_not_available":             "Cash on Delivery is not available for items in your cart",
		"error.payment_method_invalid":        "Please choose a valid payment method",
		"error.checkout_in_flight":            "Your order is already being placed",
		"error.order_create_failed":           "Could not place your order",
		"error.payment_provider_unavailable":  "Payment service is unavailable, please try again",
		"error.payment_failed":                "Payment failed: %s",
		"error.payment_failed_generic":        "Payment failed, please try again",
		"error.payment_cancelled":             "Payment was cancelled",
		"error.payment_ref_required":          "Payment reference is missing",
		"error.payment_verify_failed":         "We could not verify your payment",
		"error.payment_captured_not_recorded": "Your payment %s was received but we could not record it. Please contact support with this reference.",
		"error.payment_outcome_invalid":       "Unknown payment result",
		"error.idempotency_key_invalid":       "Idempotency key is too long",

		"error.order_not_found":          "Order not found",
		"error.order_status_invalid":     "Order status does not allow this action",
		"error.order_cancel_not_allowed": "This order can no longer be cancelled",
		"error.order_fetch_failed":       "Could not load orders",
		"error.order_update_failed":      "Could not update order",
		"error.return_not_allowed":       "This order is not eligible for return",
		"error.return_window_expired":    "The return window for this order has closed",
		"error.return_reason_required":   "Please tell us why you are returning this order",
		"error.return_reason_too_long":   "Return reason is too long",
		"error.return_not_found":         "Return request not found",
		"error.return_status_invalid":    "Unknown return status",
		"error.payment_status_invalid":   "Unknown payment status",
		"error.user_fetch_failed":        "Could not load users",
		"error.user_not_found":           "User not found",
		"error.permission_fetch_failed":  "Could not load permissions",
	},
	LocaleZH: {
		"success": "成功",

		"error.bad_request":         "请求参数错误",
		"error.unauthorized":        "请先登录",
		"error.forbidden":           "无权执行该操作",
		"error.not_found":           "资源不存在",
		"error.internal":            "服务异常，请稍后重试",
		"error.too_many_requests":   "请求过于频繁",
		"error.jwt_secret_missing":  "鉴权未配置",
		"error.auth_header_missing": "缺少 Authorization 头",
		"error.auth_header_invalid": "Authorization 头格式错误",
		"error.token_invalid":       "登录状态无效，请重新登录",
		"error.token_revoked":       "登录已失效，请重新登录",
		"error.user_disabled":       "账号已被禁用",
		"error.id_invalid":          "ID 无效",

		"error.email_invalid":            "邮箱格式不正确",
		"error.email_exists":             "该邮箱已注册",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.login_rate_limited":       "登录尝试过多，请 %d 秒后再试",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.profile_empty":            "没有需要更新的内容",
		"error.role_invalid":             "角色无效",
		"error.captcha_required":         "请完成验证码",
		"error.captcha_invalid":          "验证码错误或已过期",
		"error.captcha_generate_failed":  "验证码生成失败",

		"error.product_not_found":     "商品不存在",
		"error.product_not_available": "商品不可购买",
		"error.variant_invalid":       "所选规格不可用",
		"error.size_required":         "请选择尺码",
		"error.size_invalid":          "不支持所选尺码",
		"error.out_of_stock":          "商品已售罄",
		"error.slug_exists":           "Slug 已存在",
		"error.product_invalid":       "商品信息不合法",
		"error.product_save_failed":   "商品保存失败",

		"error.category_not_found":     "分类不存在",
		"error.category_invalid":       "分类信息不合法",
		"error.category_in_use":        "该分类下仍有商品",
		"error.category_save_failed":   "分类保存失败",
		"error.category_delete_failed": "分类删除失败",
		"error.brand_not_found":        "品牌不存在",
		"error.brand_invalid":          "品牌信息不合法",
		"error.brand_in_use":           "该品牌下仍有商品",
		"error.brand_save_failed":      "品牌保存失败",
		"error.brand_delete_failed":    "品牌删除失败",
		"error.product_query_invalid":  "商品筛选条件无效",

		"error.wishlist_item_not_found": "该商品不在心愿单中",
		"error.wishlist_failed":         "心愿单更新失败",
		"error.review_invalid":          "评分需在 1 到 5 之间",
		"error.review_not_allowed":      "商品送达后才能评价",
		"error.review_save_failed":      "评价保存失败",
		"error.analytics_range_invalid": "统计区间无效",
		"error.analytics_fetch_failed":  "统计数据读取失败",

		"error.quantity_invalid":    "数量至少为 1",
		"error.cart_line_not_found": "购物车项不存在",
		"error.cart_empty":          "购物车为空",
		"error.cart_failed":         "购物车更新失败",

		"error.address_not_found":      "地址不存在",
		"error.address_invalid":        "请填写完整的地址信息",
		"error.address_save_failed":    "地址保存失败",
		"error.bank_account_invalid":   "银行账户信息不合法",
		"error.bank_account_not_found": "银行账户不存在",

		"error.insufficient_stock":            "购物车中商品库存不足",
		"error.cod_not_available":             "购物车中有商品不支持货到付款",
		"error.payment_method_invalid":        "请选择有效的支付方式",
		"error.checkout_in_flight":            "订单正在提交中",
		"error.order_create_failed":           "下单失败",
		"error.payment_provider_unavailable":  "支付服务暂不可用，请稍后重试",
		"error.payment_failed":                "支付失败：%s",
		"error.payment_failed_generic":        "支付失败，请重试",
		"error.payment_cancelled":             "支付已取消",
		"error.payment_ref_required":          "缺少支付流水号",
		"error.payment_verify_failed":         "支付核验失败",
		"error.payment_captured_not_recorded": "支付 %s 已到账但订单未能更新，请携带该流水号联系客服",
		"error.payment_outcome_invalid":       "未知的支付结果",
		"error.idempotency_key_invalid":       "幂等键过长",

		"error.order_not_found":          "订单不存在",
		"error.order_status_invalid":     "当前订单状态不允许该操作",
		"error.order_cancel_not_allowed": "该订单已无法取消",
		"error.order_fetch_failed":       "订单读取失败",
		"error.order_update_failed":      "订单更新失败",
		"error.return_not_allowed":       "该订单不可退货",
		"error.return_window_expired":    "已超过退货期限",
		"error.return_reason_required":   "请填写退货原因",
		"error.return_reason_too_long":   "退货原因过长",
		"error.return_not_found":         "退货申请不存在",
		"error.return_status_invalid":    "退货状态无效",
		"error.payment_status_invalid":   "支付状态无效",
		"error.user_fetch_failed":        "用户读取失败",
		"error.user_not_found":           "用户不存在",
		"error.permission_fetch_failed":  "权限读取失败",
	},
}
