package i18n

var catalog = map[string]message{
	// 通用
	"error.bad_request":       {zh: "请求参数错误", en: "Bad request", fr: "Requête invalide"},
	"error.validation_failed": {zh: "参数校验失败", en: "Validation failed", fr: "Validation échouée"},
	"error.not_found":         {zh: "资源不存在", en: "Resource not found", fr: "Ressource introuvable"},
	"error.internal":          {zh: "服务器内部错误", en: "Internal server error", fr: "Erreur interne du serveur"},
	"error.id_invalid":        {zh: "ID 无效", en: "Invalid ID", fr: "Identifiant invalide"},
	"error.amount_invalid":    {zh: "金额无效", en: "Invalid amount", fr: "Montant invalide"},
	"error.fetch_failed":      {zh: "查询失败", en: "Failed to fetch data", fr: "Échec de la lecture des données"},
	"error.save_failed":       {zh: "保存失败", en: "Failed to save", fr: "Échec de l'enregistrement"},

	// 鉴权
	"error.jwt_secret_missing":     {zh: "JWT 密钥未配置", en: "JWT secret is not configured", fr: "Clé JWT non configurée"},
	"error.auth_header_missing":    {zh: "缺少认证信息", en: "Authorization header missing", fr: "En-tête d'autorisation manquant"},
	"error.auth_header_invalid":    {zh: "认证信息格式错误", en: "Invalid authorization header", fr: "En-tête d'autorisation invalide"},
	"error.token_invalid":          {zh: "登录凭证无效", en: "Invalid token", fr: "Jeton invalide"},
	"error.token_revoked":          {zh: "登录已失效，请重新登录", en: "Session expired, please sign in again", fr: "Session expirée, veuillez vous reconnecter"},
	"error.unauthorized":           {zh: "未登录或登录已过期", en: "Unauthorized", fr: "Non authentifié"},
	"error.forbidden":              {zh: "无权访问", en: "Forbidden", fr: "Accès refusé"},
	"error.user_disabled":          {zh: "账号已被禁用", en: "Account disabled", fr: "Compte désactivé"},
	"error.login_invalid":          {zh: "用户名或密码错误", en: "Invalid username or password", fr: "Identifiant ou mot de passe incorrect"},
	"error.login_too_many":         {zh: "登录尝试过多，请 %d 秒后重试", en: "Too many login attempts, retry in %d seconds", fr: "Trop de tentatives, réessayez dans %d secondes"},
	"error.password_invalid":       {zh: "原密码错误", en: "Current password is incorrect", fr: "Mot de passe actuel incorrect"},
	"error.password_policy":        {zh: "密码不符合安全策略", en: "Password does not meet the policy", fr: "Le mot de passe ne respecte pas la politique"},

	// 密码策略
	"error.password_min_length":      {zh: "密码长度不能少于 %d 位", en: "Password must be at least %d characters", fr: "Le mot de passe doit contenir au moins %d caractères"},
	"error.password_require_upper":   {zh: "密码需包含大写字母", en: "Password must contain an uppercase letter", fr: "Le mot de passe doit contenir une majuscule"},
	"error.password_require_lower":   {zh: "密码需包含小写字母", en: "Password must contain a lowercase letter", fr: "Le mot de passe doit contenir une minuscule"},
	"error.password_require_number":  {zh: "密码需包含数字", en: "Password must contain a digit", fr: "Le mot de passe doit contenir un chiffre"},
	"error.password_require_special": {zh: "密码需包含特殊字符", en: "Password must contain a special character", fr: "Le mot de passe doit contenir un caractère spécial"},

	"error.rate_limit_unavailable": {zh: "限流服务不可用", en: "Rate limiter unavailable", fr: "Limiteur de débit indisponible"},
	"error.rate_limited":           {zh: "请求过于频繁，请 %d 秒后重试", en: "Too many requests, retry in %d seconds", fr: "Trop de requêtes, réessayez dans %d secondes"},

	// 账号
	"error.user_not_found":   {zh: "账号不存在", en: "User not found", fr: "Utilisateur introuvable"},
	"error.username_taken":   {zh: "用户名已被占用", en: "Username already taken", fr: "Nom d'utilisateur déjà pris"},
	"error.role_invalid":     {zh: "角色无效", en: "Invalid role", fr: "Rôle invalide"},
	"error.profile_missing":  {zh: "当前账号未绑定档案", en: "No profile bound to this account", fr: "Aucun profil associé à ce compte"},
	"error.policy_immutable": {zh: "内置权限不可撤销", en: "Builtin policy cannot be revoked", fr: "Une règle intégrée ne peut pas être révoquée"},

	// 收益规则与商品
	"error.rules_invalid":           {zh: "收益规则无效", en: "Invalid revenue rules", fr: "Règles de rémunération invalides"},
	"error.margin_below_base":       {zh: "毛利低于平台保底毛利", en: "Margin is below the protected base margin", fr: "La marge est inférieure à la marge de base"},
	"error.negative_platform_gain":  {zh: "存在等级使平台收益为负", en: "Platform gain would be negative for some tier", fr: "Le gain plateforme serait négatif pour un palier"},
	"error.product_not_found":       {zh: "商品不存在", en: "Product not found", fr: "Produit introuvable"},
	"error.product_not_active":      {zh: "商品未上架", en: "Product is not active", fr: "Produit non disponible"},
	"error.product_status_invalid":  {zh: "当前商品状态不允许该操作", en: "Product status does not allow this operation", fr: "Le statut du produit ne permet pas cette opération"},
	"error.promo_code_invalid":      {zh: "推广码无效", en: "Invalid promo code", fr: "Code promo invalide"},
	"error.dashboard_range_invalid": {zh: "统计时间范围无效", en: "Invalid dashboard range", fr: "Période de tableau de bord invalide"},

	// 订单
	"error.order_not_found":           {zh: "订单不存在", en: "Order not found", fr: "Commande introuvable"},
	"error.order_items_empty":         {zh: "订单商品不能为空", en: "Order items are empty", fr: "La commande ne contient aucun article"},
	"error.mixed_supplier_items":      {zh: "订单商品必须来自同一供应商", en: "Order items must come from one supplier", fr: "Les articles doivent provenir d'un seul fournisseur"},
	"error.fulfillment_type_invalid":  {zh: "配送方式无效", en: "Invalid fulfillment type", fr: "Mode de livraison invalide"},
	"error.fulfillment_type_mismatch": {zh: "目标状态与配送方式不匹配", en: "Status does not match the fulfillment type", fr: "Le statut ne correspond pas au mode de livraison"},
	"error.invalid_transition":        {zh: "订单状态不允许该流转", en: "Invalid order status transition", fr: "Transition de statut invalide"},
	"error.order_status_conflict":     {zh: "订单状态已被更新，请刷新后重试", en: "Order status changed, please retry", fr: "Le statut a changé, veuillez réessayer"},
	"error.order_queued":              {zh: "订单排队中，请先完成更早的订单", en: "Order is queued behind an earlier order", fr: "Commande en attente derrière une commande antérieure"},
	"error.supplier_busy":             {zh: "供应商已有进行中的订单", en: "Supplier already has an order in progress", fr: "Le fournisseur a déjà une commande en cours"},

	// 供应商与结算
	"error.supplier_not_found":       {zh: "供应商不存在", en: "Supplier not found", fr: "Fournisseur introuvable"},
	"error.supplier_suspended":       {zh: "供应商已被暂停", en: "Supplier suspended", fr: "Fournisseur suspendu"},
	"error.settlement_not_found":     {zh: "结算单不存在", en: "Settlement not found", fr: "Règlement introuvable"},
	"error.settlement_not_pending":   {zh: "结算单已处理", en: "Settlement already finalized", fr: "Règlement déjà traité"},
	"error.settlement_ref_duplicate": {zh: "交易流水号已提交过", en: "Transaction reference already declared", fr: "Référence de transaction déjà déclarée"},
	"error.reconciliation_mismatch":  {zh: "没有可核销的已送达订单", en: "No unpaid delivered orders to reconcile", fr: "Aucune commande livrée impayée à rapprocher"},

	// 推广员与提现
	"error.partner_not_found":         {zh: "推广员不存在", en: "Partner not found", fr: "Partenaire introuvable"},
	"error.partner_unavailable":       {zh: "推广员不可用", en: "Partner unavailable", fr: "Partenaire indisponible"},
	"error.insufficient_balance":      {zh: "可用余额不足", en: "Insufficient balance", fr: "Solde insuffisant"},
	"error.below_minimum_payout":      {zh: "金额低于当前等级最低提现额", en: "Amount below the tier minimum payout", fr: "Montant inférieur au retrait minimum du palier"},
	"error.withdrawal_not_found":      {zh: "提现申请不存在", en: "Withdrawal not found", fr: "Demande de retrait introuvable"},
	"error.withdraw_status_invalid":   {zh: "提现申请已处理", en: "Withdrawal already reviewed", fr: "Demande de retrait déjà traitée"},
	"error.withdraw_action_invalid":   {zh: "审核动作无效", en: "Invalid review action", fr: "Action de revue invalide"},
	"error.withdraw_channel_required": {zh: "请填写提现渠道与账号", en: "Withdraw channel and account are required", fr: "Canal et compte de retrait requis"},
}
